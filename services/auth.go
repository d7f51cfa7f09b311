package services

// AddBearerAuth agrega el header Authorization si no viene del request y hay token configurado.
func AddBearerAuth(headers map[string]string, token string) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	if _, ok := headers["Authorization"]; ok {
		return headers
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}
