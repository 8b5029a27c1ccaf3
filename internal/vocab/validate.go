package vocab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxSetSize bounds how many words a single acquisition may yield.
const MaxSetSize = 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type batch struct {
	Items []WordItem `validate:"min=1,max=20,unique=Character,dive"`
}

// ValidateSet checks that every item carries all five fields and that no two
// items share a character. The set is either accepted whole or rejected.
func ValidateSet(items []WordItem) error {
	if err := validate.Struct(batch{Items: items}); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s%s", e.Namespace(), e.Tag(), param(e.Param())))
		}
		return fmt.Errorf("invalid word set: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
