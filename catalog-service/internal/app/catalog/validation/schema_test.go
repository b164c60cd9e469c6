package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagesOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	return verr.Messages
}

func TestCategoryCreate(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected []string
	}{
		{
			name:     "пустое тело",
			input:    map[string]interface{}{},
			expected: []string{`"cname" is required`, `"description" is required`},
		},
		{
			name:     "не объект",
			input:    "text",
			expected: []string{`"value" must be of type object`},
		},
		{
			name:     "неверные типы",
			input:    map[string]interface{}{"cname": 12.0, "description": nil},
			expected: []string{`"cname" must be a string`, `"description" must be a string`},
		},
		{
			name:     "пустая строка",
			input:    map[string]interface{}{"cname": "", "description": "d"},
			expected: []string{`"cname" is not allowed to be empty`},
		},
		{
			name:     "слишком длинное описание",
			input:    map[string]interface{}{"cname": "Shoes", "description": strings.Repeat("a", 501)},
			expected: []string{`"description" length must be less than or equal to 500 characters long`},
		},
		{
			name:  "лишние поля",
			input: map[string]interface{}{"cname": "Shoes", "description": "d", "zeta": 1.0, "alpha": true},
			expected: []string{
				`"alpha" is not allowed`,
				`"zeta" is not allowed`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CategoryCreate.Validate(tt.input)
			assert.Equal(t, tt.expected, messagesOf(t, err))
		})
	}
}

func TestCategoryCreate_Valid(t *testing.T) {
	out, err := CategoryCreate.Validate(map[string]interface{}{
		"cname":       "Shoes",
		"description": strings.Repeat("я", 500),
	})

	require.NoError(t, err)
	assert.Equal(t, "Shoes", out["cname"])
	assert.Len(t, out["description"], 1000) // 500 рун по 2 байта
}

func TestProductCreate(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		expected []string
	}{
		{
			name:  "все поля отсутствуют",
			input: map[string]interface{}{},
			expected: []string{
				`"name" is required`,
				`"price" is required`,
				`"description" is required`,
				`"categoryID" is required`,
			},
		},
		{
			name:     "цена не число",
			input:    map[string]interface{}{"name": "Boot", "price": "cheap", "description": "d", "categoryID": 1.0},
			expected: []string{`"price" must be a number`},
		},
		{
			name:     "дробная цена",
			input:    map[string]interface{}{"name": "Boot", "price": 10.5, "description": "d", "categoryID": 1.0},
			expected: []string{`"price" must be an integer`},
		},
		{
			name:     "отрицательная цена",
			input:    map[string]interface{}{"name": "Boot", "price": -1.0, "description": "d", "categoryID": 1.0},
			expected: []string{`"price" must be greater than or equal to 0`},
		},
		{
			name:     "цена за пределами int64",
			input:    map[string]interface{}{"name": "Boot", "price": 9223372036854775807.0, "description": "d", "categoryID": 1.0},
			expected: []string{`"price" must be a safe number`},
		},
		{
			name:     "цена строкой за пределами 2^53",
			input:    map[string]interface{}{"name": "Boot", "price": "9007199254740992", "description": "d", "categoryID": 1.0},
			expected: []string{`"price" must be a safe number`},
		},
		{
			name:     "категория за пределами 2^53",
			input:    map[string]interface{}{"name": "Boot", "price": 1.0, "description": "d", "categoryID": -1e300},
			expected: []string{`"categoryID" must be a safe number`},
		},
		{
			name:     "нулевая категория",
			input:    map[string]interface{}{"name": "Boot", "price": 1.0, "description": "d", "categoryID": 0.0},
			expected: []string{`"categoryID" must be greater than or equal to 1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProductCreate.Validate(tt.input)
			assert.Equal(t, tt.expected, messagesOf(t, err))
		})
	}
}

func TestProductCreate_NormalizesNumbers(t *testing.T) {
	out, err := ProductCreate.Validate(map[string]interface{}{
		"name":        "Boot",
		"price":       "150",
		"description": "Leather",
		"categoryID":  2.0,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(150), out["price"])
	assert.Equal(t, int64(2), out["categoryID"])
}

func TestProductCreate_MaxSafePrice(t *testing.T) {
	out, err := ProductCreate.Validate(map[string]interface{}{
		"name":        "Boot",
		"price":       9007199254740991.0,
		"description": "d",
		"categoryID":  1.0,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740991), out["price"])
}

func TestProductUpdate_Partial(t *testing.T) {
	out, err := ProductUpdate.Validate(map[string]interface{}{"price": 99.0})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"price": int64(99)}, out)

	out, err = ProductUpdate.Validate(map[string]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = ProductUpdate.Validate(map[string]interface{}{"slug": "x"})
	assert.Equal(t, []string{`"slug" is not allowed`}, messagesOf(t, err))
}

func TestValidateList(t *testing.T) {
	t.Run("не массив", func(t *testing.T) {
		_, err := ProductCreate.ValidateList(map[string]interface{}{})
		assert.Equal(t, []string{`"value" must be an array`}, messagesOf(t, err))
	})

	t.Run("пустой массив", func(t *testing.T) {
		_, err := ProductCreate.ValidateList([]interface{}{})
		assert.Equal(t, []string{`"value" must contain at least 1 items`}, messagesOf(t, err))
	})

	t.Run("ошибки с индексами", func(t *testing.T) {
		_, err := ProductCreate.ValidateList([]interface{}{
			map[string]interface{}{"name": "A", "price": 1.0, "description": "d", "categoryID": 1.0},
			map[string]interface{}{"name": "B", "description": "d", "categoryID": 1.0},
			"oops",
		})
		assert.Equal(t, []string{`"[1].price" is required`, `"[2]" must be of type object`}, messagesOf(t, err))
	})

	t.Run("валидный массив", func(t *testing.T) {
		out, err := ProductCreate.ValidateList([]interface{}{
			map[string]interface{}{"name": "A", "price": 1.0, "description": "d", "categoryID": 1.0},
			map[string]interface{}{"name": "B", "price": 2.0, "description": "d", "categoryID": 3.0},
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "B", out[1]["name"])
		assert.Equal(t, int64(3), out[1]["categoryID"])
	})
}
