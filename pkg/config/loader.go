package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	loaded = make(map[string]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into the provided configuration struct
// based on `env` field tags. Each configuration type is parsed once per
// process; later calls for the same type return the cached value, so every
// component sees identical configuration regardless of load order.
//
// A .env file in the working directory is loaded first when present.
//
// Example:
//
//	type Keys struct {
//		SealingKey string `env:"TOTP_ENCRYPTION_KEY,required"`
//	}
//
//	var keys Keys
//	if err := config.Load(&keys); err != nil {
//		// deployment misconfiguration
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	name := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[name]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	loaded[name] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Intended for
// configurations without which the process cannot start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
