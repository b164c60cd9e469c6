package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"shopcatalog/pkg/metrics"
)

// Kind - ожидаемый тип значения поля
type Kind int

const (
	String Kind = iota
	Number
	Integer
)

// Field описывает одно поле тела запроса.
// Rules - теги go-playground/validator (например "max=500"), проверяются после приведения типа.
type Field struct {
	Key      string
	Kind     Kind
	Required bool
	Rules    string
}

// Schema - упорядоченный набор полей. Сообщения об ошибках идут в порядке полей.
type Schema struct {
	Name   string
	Fields []Field
}

// Error содержит все сообщения валидации (проверка не прерывается на первой ошибке)
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

var validate = validator.New()

// maxSafeInteger - 2^53-1, дальше float64 теряет точность целых
const maxSafeInteger = 1<<53 - 1

var (
	CategoryCreate = Schema{
		Name: "category_create",
		Fields: []Field{
			{Key: "cname", Kind: String, Required: true},
			{Key: "description", Kind: String, Required: true, Rules: "max=500"},
		},
	}

	ProductCreate = Schema{
		Name: "product_create",
		Fields: []Field{
			{Key: "name", Kind: String, Required: true},
			{Key: "price", Kind: Integer, Required: true, Rules: "min=0"},
			{Key: "description", Kind: String, Required: true, Rules: "max=500"},
			{Key: "categoryID", Kind: Integer, Required: true, Rules: "min=1"},
		},
	}

	ProductUpdate = Schema{
		Name: "product_update",
		Fields: []Field{
			{Key: "name", Kind: String},
			{Key: "price", Kind: Integer, Rules: "min=0"},
			{Key: "description", Kind: String, Rules: "max=500"},
			{Key: "categoryID", Kind: Integer, Rules: "min=1"},
		},
	}
)

// Validate проверяет декодированное JSON тело и возвращает нормализованную запись:
// строки как string, Integer как int64, Number как float64.
// Ключи, которых нет в схеме, считаются ошибкой.
func (s Schema) Validate(input interface{}) (map[string]interface{}, error) {
	out, messages := s.validateObject(input, "")
	if len(messages) > 0 {
		metrics.CatalogValidationFailures.WithLabelValues(s.Name).Inc()
		return nil, &Error{Messages: messages}
	}
	return out, nil
}

// ValidateList проверяет массив записей. Метки в сообщениях получают индекс: "[1].price".
func (s Schema) ValidateList(input interface{}) ([]map[string]interface{}, error) {
	items, ok := input.([]interface{})
	if !ok {
		metrics.CatalogValidationFailures.WithLabelValues(s.Name).Inc()
		return nil, &Error{Messages: []string{`"value" must be an array`}}
	}
	if len(items) == 0 {
		metrics.CatalogValidationFailures.WithLabelValues(s.Name).Inc()
		return nil, &Error{Messages: []string{`"value" must contain at least 1 items`}}
	}

	result := make([]map[string]interface{}, 0, len(items))
	var messages []string
	for i, item := range items {
		out, msgs := s.validateObject(item, fmt.Sprintf("[%d].", i))
		messages = append(messages, msgs...)
		result = append(result, out)
	}
	if len(messages) > 0 {
		metrics.CatalogValidationFailures.WithLabelValues(s.Name).Inc()
		return nil, &Error{Messages: messages}
	}
	return result, nil
}

func (s Schema) validateObject(input interface{}, prefix string) (map[string]interface{}, []string) {
	obj, ok := input.(map[string]interface{})
	if !ok {
		label := "value"
		if prefix != "" {
			label = strings.TrimSuffix(prefix, ".")
		}
		return nil, []string{fmt.Sprintf("%q must be of type object", label)}
	}

	out := make(map[string]interface{}, len(s.Fields))
	var messages []string
	known := make(map[string]struct{}, len(s.Fields))

	for _, f := range s.Fields {
		known[f.Key] = struct{}{}
		label := prefix + f.Key

		raw, present := obj[f.Key]
		if !present {
			if f.Required {
				messages = append(messages, fmt.Sprintf("%q is required", label))
			}
			continue
		}

		value, msg := coerce(f, label, raw)
		if msg != "" {
			messages = append(messages, msg)
			continue
		}
		if f.Rules != "" {
			if err := validate.Var(value, f.Rules); err != nil {
				messages = append(messages, ruleMessages(f, label, err)...)
				continue
			}
		}
		out[f.Key] = value
	}

	var unknown []string
	for key := range obj {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		messages = append(messages, fmt.Sprintf("%q is not allowed", prefix+key))
	}

	return out, messages
}

// coerce приводит значение к типу поля. Числовые строки принимаются для Number/Integer.
func coerce(f Field, label string, raw interface{}) (interface{}, string) {
	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Sprintf("%q must be a string", label)
		}
		if s == "" {
			return nil, fmt.Sprintf("%q is not allowed to be empty", label)
		}
		return s, ""

	case Number, Integer:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Sprintf("%q must be a number", label)
		}
		if math.Abs(n) > maxSafeInteger {
			return nil, fmt.Sprintf("%q must be a safe number", label)
		}
		if f.Kind == Number {
			return n, ""
		}
		if n != math.Trunc(n) {
			return nil, fmt.Sprintf("%q must be an integer", label)
		}
		return int64(n), ""
	}
	return raw, ""
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func ruleMessages(f Field, label string, err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{fmt.Sprintf("%q is invalid", label)}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, ruleMessage(f.Kind, label, fe.Tag(), fe.Param()))
	}
	return messages
}

func ruleMessage(kind Kind, label, tag, param string) string {
	if kind == String {
		switch tag {
		case "max":
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", label, param)
		case "min":
			return fmt.Sprintf("%q length must be at least %s characters long", label, param)
		}
	} else {
		switch tag {
		case "max":
			return fmt.Sprintf("%q must be less than or equal to %s", label, param)
		case "min":
			return fmt.Sprintf("%q must be greater than or equal to %s", label, param)
		}
	}
	return fmt.Sprintf("%q is invalid", label)
}
