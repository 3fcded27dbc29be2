package http

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var registerOnce sync.Once

// registerValidators adds the custom rules used by request structs to gin's
// validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Warn().Str("module", "adapters.http").Msg("unexpected validator engine, custom rules not registered")
			return
		}
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("register notblank")
		}
	})
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
