package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB tipo genérico para colunas jsonb
type JSONB map[string]interface{}

// JSONBStringArray lista de strings armazenada como jsonb
type JSONBStringArray []string

// JSONBIntMap mapa string->int armazenado como jsonb (breakdown de scores)
type JSONBIntMap map[string]int

func jsonbBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("valor jsonb inválido: não é []byte nem string")
	}
}

// Scan implementa sql.Scanner
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// Value implementa driver.Valuer
func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implementa sql.Scanner
func (j *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// Value implementa driver.Valuer
func (j JSONBStringArray) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implementa sql.Scanner
func (j *JSONBIntMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// Value implementa driver.Valuer
func (j JSONBIntMap) Value() (driver.Value, error) {
	return json.Marshal(j)
}
