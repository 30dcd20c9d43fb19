package easytrans

import (
	"encoding/base64"
	"strings"
)

// Credentials identify an account on one environment of a server. They
// are immutable once a client is built from them.
type Credentials struct {
	ServerURL   string
	Environment string
	Username    string
	Password    string
}

// Validate reports missing credential fields.
func (c Credentials) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"server URL", c.ServerURL},
		{"environment", c.Environment},
		{"username", c.Username},
		{"password", c.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return NewError(KindValidation, 0, "missing credentials: "+strings.Join(missing, ", "))
	}
	return nil
}

// host strips any scheme and trailing slash from the server URL.
func (c Credentials) host() string {
	h := strings.TrimPrefix(strings.TrimPrefix(c.ServerURL, "https://"), "http://")
	return strings.TrimRight(h, "/")
}

// ImportURL is the endpoint of the import API.
func (c Credentials) ImportURL() string {
	return "https://" + c.host() + "/" + c.Environment + "/import_json.php"
}

// RESTBaseURL is the base of the REST API paths.
func (c Credentials) RESTBaseURL() string {
	return "https://" + c.host() + "/" + c.Environment + "/api/v1"
}

// BasicAuth is the Authorization header value of REST requests.
func (c Credentials) BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))
}

// String hides the password.
func (c Credentials) String() string {
	return c.Username + "@" + c.host() + "/" + c.Environment
}
