package accesslog

import (
	"fmt"
	"strings"

	"stockscope/internal/core/id"
)

// Anonymous is recorded when no user can be determined.
const Anonymous = "Anonymous"

// bodyObjectKeys are the response keys inspected, in order, when the URL
// does not name an object.
var bodyObjectKeys = []string{"rawMaterial", "stock", "customer", "supplier"}

// ExtractObject determines the object a request acted on. A path of the
// form /api/<type>/<id> wins when <id> is a valid identifier; otherwise
// the response body is searched for a known object with an id.
func ExtractObject(path string, response any) (objectType, objectID *string) {
	if t, oid, ok := fromPath(path); ok {
		return &t, &oid
	}
	body, ok := response.(map[string]any)
	if !ok {
		return nil, nil
	}
	for _, key := range bodyObjectKeys {
		obj, ok := body[key].(map[string]any)
		if !ok {
			continue
		}
		raw, ok := obj["id"]
		if !ok || raw == nil {
			continue
		}
		k, oid := key, fmt.Sprint(raw)
		return &k, &oid
	}
	return nil, nil
}

func fromPath(path string) (string, string, bool) {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[0] == "" {
		return "", "", false
	}
	if _, err := id.Parse(parts[1]); err != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ResolveUser picks the recorded user name: the authenticated user, then
// the email or username of a login body, then Anonymous.
func ResolveUser(authenticated string, requestBody map[string]any) string {
	if authenticated != "" {
		return authenticated
	}
	for _, key := range []string{"email", "username"} {
		if s, ok := requestBody[key].(string); ok && s != "" {
			return s
		}
	}
	return Anonymous
}

// Sanitize returns a copy of body without the password field.
func Sanitize(body map[string]any) map[string]any {
	if body == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		if k == "password" {
			continue
		}
		out[k] = v
	}
	return out
}
