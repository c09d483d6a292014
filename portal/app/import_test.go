package app_test

import (
	"strings"
	"testing"

	"github.com/Astemirdum/department-portal/portal/app"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/stretchr/testify/require"
)

func TestReadVerifiedEmails(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name    string
		input   string
		want    []model.VerifiedEmail
		wantErr bool
	}{
		{
			name: "yaml",
			input: `
- email: " Teacher@MBSTU.ac.bd "
  role: Teacher
- email: mamun@economics.mbstu.ac.bd
  role: Student
`,
			want: []model.VerifiedEmail{
				{Email: "Teacher@MBSTU.ac.bd", Role: model.RoleTeacher},
				{Email: "mamun@economics.mbstu.ac.bd", Role: model.RoleStudent},
			},
		},
		{
			name:  "json",
			input: `[{"email":"alumni@mbstu.ac.bd","role":"Alumni"}]`,
			want:  []model.VerifiedEmail{{Email: "alumni@mbstu.ac.bd", Role: model.RoleAlumni}},
		},
		{
			name:    "unknown role",
			input:   `[{"email":"x@mbstu.ac.bd","role":"Dean"}]`,
			wantErr: true,
		},
		{
			name:    "bad email",
			input:   `[{"email":"not-an-email","role":"Guest"}]`,
			wantErr: true,
		},
		{
			name:    "empty",
			input:   ``,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := app.ReadVerifiedEmails(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
