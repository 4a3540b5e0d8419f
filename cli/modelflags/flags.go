package modelflags

import (
	"errors"

	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
	"github.com/spf13/pflag"
)

type Flags struct {
	Path   string
	Strict bool
}

func (f *Flags) SetFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path, "model", "", "YAML file describing the domain model")
	fs.BoolVar(&f.Strict, "strict", false, "enforce strict JPQL compliance regardless of the model file")
}

// Open loads the model named by the -model flag.  -strict turns on strict
// JPQL compliance; without it the setting of the model file applies.
func (f *Flags) Open() (*domain.Registry, error) {
	if f.Path == "" {
		return nil, errors.New("no domain model: use --model to name a model file")
	}
	model, err := domain.LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if f.Strict {
		model.Strict = true
	}
	return model, nil
}
