package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList 以 JSON 陣列儲存的字串清單
type StringList []string

// Scan 實作 sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Value 實作 driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONColumn 將任意結構以 JSON 文件儲存於單一欄位
type JSONColumn[T any] struct {
	Data T
}

// NewJSONColumn 包裝資料
func NewJSONColumn[T any](data T) JSONColumn[T] {
	return JSONColumn[T]{Data: data}
}

// Scan 實作 sql.Scanner
func (j *JSONColumn[T]) Scan(value interface{}) error {
	var zero T
	j.Data = zero
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("cannot scan %T into JSONColumn", value)
	}
}

// Value 實作 driver.Valuer
func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
