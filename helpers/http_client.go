// helpers/http_client.go
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ---------- Cliente JSON (envuelto o no) + RETRIES ----------

// CrudWrapper es la envoltura estándar {Success, Status, Message, Data}.
type CrudWrapper struct {
	Success bool            `json:"Success"`
	Status  json.RawMessage `json:"Status,omitempty"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// HTTPError envuelve códigos de estado no exitosos para permitir un manejo granular.
type HTTPError struct {
	Status int
	Body   string
}

// Error imprime el estado y cuerpo asociado.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// IsHTTPError permite consultar si el error corresponde a un status específico.
func IsHTTPError(err error, status int) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status == status
	}
	return false
}

var (
	defaultRetryCount  = 0
	defaultBackoffBase = 300 * time.Millisecond
	maxBackoff         = 3 * time.Second

	sharedClient = &http.Client{}
)

func SetDefaultRetryCount(n int) {
	if n < 0 {
		n = 0
	}
	defaultRetryCount = n
}

func SetRetryBackoff(baseMs int) {
	if baseMs <= 0 {
		baseMs = 300
	}
	defaultBackoffBase = time.Duration(baseMs) * time.Millisecond
}

// DoJSON asume sin headers adicionales.
func DoJSON(ctx context.Context, method, url string, in any, out any, timeout time.Duration) error {
	return DoJSONWithHeaders(ctx, method, url, nil, in, out, timeout)
}

// DoJSONWithHeaders serializa in, ejecuta la petición y decodifica la respuesta en out.
// Acepta respuestas crudas o envueltas en CrudWrapper. Solo GET se reintenta:
// las escrituras no son idempotentes en el backend.
func DoJSONWithHeaders(ctx context.Context, method, url string, headers map[string]string, in any, out any, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var body []byte
	var err error
	if in != nil {
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	doOnce := func() error {
		reqCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(reqCtx, method, url, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			if v != "" {
				req.Header.Set(k, v)
			}
		}

		resp, err := sharedClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			b, _ := io.ReadAll(resp.Body)
			return &HTTPError{
				Status: resp.StatusCode,
				Body:   strings.TrimSpace(string(b)),
			}
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return decodeBody(bodyBytes, out)
	}

	var attempt int
	for {
		err = doOnce()
		if err == nil {
			return nil
		}
		if method != http.MethodGet || attempt >= defaultRetryCount || !isRetryableErr(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoffFor(attempt)):
		}
		attempt++
	}
}

func decodeBody(bodyBytes []byte, out any) error {
	trimmed := bytes.TrimSpace(bodyBytes)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '{' || !looksWrapped(trimmed) {
		return json.Unmarshal(trimmed, out)
	}

	var w CrudWrapper
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	if !w.Success {
		if w.Message == "" {
			w.Message = "operación fallida (Success=false)"
		}
		return errors.New(w.Message)
	}
	if len(w.Data) == 0 {
		return nil
	}
	return json.Unmarshal(w.Data, out)
}

// looksWrapped detecta la envoltura sin confundirla con un objeto de dominio.
func looksWrapped(raw []byte) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return false
	}
	_, success := keys["Success"]
	if !success {
		_, success = keys["success"]
	}
	_, data := keys["Data"]
	if !data {
		_, data = keys["data"]
	}
	return success && data
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var he *HTTPError
	if errors.As(err, &he) {
		switch he.Status {
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "connection reset") ||
		strings.Contains(l, "server closed idle connection")
}

func backoffFor(attempt int) time.Duration {
	d := defaultBackoffBase << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
