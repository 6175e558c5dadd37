package toolchain

import (
	"errors"
	"slices"

	"github.com/joho/godotenv"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/zerr"
)

// loadEnvFile reads an explicit toolchain variable list from a dotenv file.
func loadEnvFile(path string) ([]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrEnvCaptureFailed, err), "path", path)
	}

	env := make([]string, 0, len(vars))
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	slices.Sort(env)
	return env, nil
}
