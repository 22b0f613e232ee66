package providers

import (
	"fmt"
	"sobriety/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks each config section against its struct tags.
func (c *CnfValidator) Validate() error {
	sections := []struct {
		name string
		data interface{}
	}{
		{"webServer", &c.conf.WebServer},
		{"store", &c.conf.Store},
		{"logger", &c.conf.Logger},
		{"display", &c.conf.Display},
	}
	for _, s := range sections {
		v := validate.Struct(s.data)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", s.name, v.Errors.One())
		}
	}
	if c.conf.Cache.Enabled && c.conf.Cache.Size < 0 {
		return fmt.Errorf("invalid cache config: size must not be negative")
	}
	return nil
}
