package easytrans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func TestCredentials_URLs(t *testing.T) {
	c := easytrans.Credentials{
		ServerURL:   "mytrans.nl",
		Environment: "demo",
		Username:    "user",
		Password:    "secret",
	}

	assert.Equal(t, "https://mytrans.nl/demo/import_json.php", c.ImportURL())
	assert.Equal(t, "https://mytrans.nl/demo/api/v1", c.RESTBaseURL())
	assert.Equal(t, "Basic dXNlcjpzZWNyZXQ=", c.BasicAuth())
	assert.NotContains(t, c.String(), "secret")
	assert.NoError(t, c.Validate())
}

func TestCredentials_StripsScheme(t *testing.T) {
	c := easytrans.Credentials{ServerURL: "https://mytrans.nl/", Environment: "demo"}
	assert.Equal(t, "https://mytrans.nl/demo/api/v1", c.RESTBaseURL())
}

func TestCredentials_Validate(t *testing.T) {
	err := easytrans.Credentials{ServerURL: "mytrans.nl"}.Validate()
	assert.Equal(t, easytrans.KindValidation, easytrans.KindOf(err))
	assert.Contains(t, err.Error(), "environment, username, password")
}
