package remote

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"dymoprint/pkg/compose"
	"dymoprint/pkg/label"
	"dymoprint/pkg/locate"
	"dymoprint/pkg/proto"
	"dymoprint/pkg/render"
)

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>dymoprint</title></head>
<body>
<form method="get" action="/">
<input type="text" name="text" value="{{.Text}}" autofocus>
<input type="submit" value="Print">
</form>
{{if .Success}}<p class="success">{{.Success}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</body>
</html>
`))

// Proxy serves the printer over srv for the lifetime of the fx app.
func Proxy(p Printer, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) {
	srv.Handler = NewHandler(p, logger)

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("listen")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("serving")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// NewHandler serves the label form on / and the JSON API on /print.
func NewHandler(p Printer, logger *zap.Logger) http.Handler {
	s := &Service{p: p, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.Index)
	mux.HandleFunc("/print", s.Print)
	return mux
}

type Service struct {
	p      Printer
	logger *zap.Logger
}

// Index prints the words of the text parameter as lines of a label.
func (s *Service) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var data pageData
	if r.URL.Query().Has("text") {
		data.Text = r.URL.Query().Get("text")
		if strings.TrimSpace(data.Text) == "" {
			data.Error = "Label has to contain text"
		} else if _, err := s.p.Print(label.Job{Text: strings.Fields(data.Text)}); err != nil {
			s.logger.With(zap.Error(err)).Info("print failed")
			data.Error = err.Error()
		} else {
			data.Success = "Printed label"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.logger.With(zap.Error(err)).Info("render page")
	}
}

// Print takes a JSON encoded label.Job and answers with a label.Result.
func (s *Service) Print(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	var job label.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errors.Wrap(err, "decode job").Error()})
		return
	}

	res, err := s.p.Print(job)
	if err != nil {
		s.logger.With(zap.Error(err)).Info("print failed")
		writeJSON(w, statusOf(err), ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, locate.ErrDeviceNotFound),
		errors.Is(err, proto.ErrPermissionDenied):
		return http.StatusServiceUnavailable
	case errors.Is(err, compose.ErrConflictingContent),
		errors.Is(err, compose.ErrEmptyLabel),
		errors.Is(err, compose.ErrQRTooDense),
		errors.Is(err, compose.ErrImageLoad),
		errors.Is(err, render.ErrUnsupportedSymbology),
		errors.Is(err, render.ErrBarcodeData),
		errors.Is(err, label.ErrMissingText):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
