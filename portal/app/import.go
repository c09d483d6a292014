package app

import (
	"io"
	"strings"

	"github.com/Astemirdum/department-portal/pkg/validate"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReadVerifiedEmails decodes an import file: a YAML (or JSON) list of
// {email, role} entries. Surrounding whitespace is trimmed; emails keep
// their case since matching on registration is exact.
func ReadVerifiedEmails(r io.Reader) ([]model.VerifiedEmail, error) {
	var items []model.VerifiedEmail
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("import file is empty")
		}
		return nil, errors.Wrap(err, "decode import file")
	}
	v := validate.NewCustomValidator()
	for i := range items {
		items[i].Email = strings.TrimSpace(items[i].Email)
		if err := v.Validate(&items[i]); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
	}
	return items, nil
}
