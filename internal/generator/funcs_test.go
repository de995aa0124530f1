package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cspoco/internal/config"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"CreatedAt", []string{"Created", "At"}},
		{"IDCard", []string{"ID", "Card"}},
		{"user_id", []string{"user", "id"}},
		{"Address2Line", []string{"Address2", "Line"}},
		{"URL", []string{"URL"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.in))
		})
	}
}

func TestCasing(t *testing.T) {
	assert.Equal(t, "createdAt", camelCase("CreatedAt"))
	assert.Equal(t, "idCard", camelCase("IDCard"))
	assert.Equal(t, "url", camelCase("URL"))
	assert.Equal(t, "", camelCase(""))
	assert.Equal(t, "UserId", pascalCase("user_id"))
	assert.Equal(t, "created_at", snakeCase("CreatedAt"))
	assert.Equal(t, "created-at", kebabCase("CreatedAt"))
}

func TestPropertyName(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, "shippingAddress", propertyName(cfg, "ShippingAddress"))

	cfg.Options.PropertyNameCase = config.CasePascal
	assert.Equal(t, "ShippingAddress", propertyName(cfg, "shipping_address"))

	cfg.Options.PropertyNameCase = config.CasePreserve
	assert.Equal(t, "shipping_Address", propertyName(cfg, "shipping_Address"))
}

func TestFormatDocComment(t *testing.T) {
	assert.Equal(t, "", formatDocComment("", "  "))
	assert.Equal(t, "  /** One line */\n", formatDocComment(" One line ", "  "))
	assert.Equal(t, "  /**\n   * First\n   * Second\n   */\n", formatDocComment("First\nSecond", "  "))
	assert.Equal(t, "// a\n// b", formatComment("a\n b", "// "))
}
