// Package dstktest runs an in-process fake DSTK server for tests.
package dstktest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Version is the /info version reported unless Options say otherwise.
const Version = 51

// Options configure a fake server. Zero values serve the canned fixtures.
type Options struct {
	// Version reported by /info. Zero means Version.
	Version int
	// Errors maps an endpoint path to a message returned as HTTP 500 with
	// {"error": message}.
	Errors map[string]string
	// Raw maps an endpoint path to a body returned verbatim with status 200.
	Raw map[string]string
}

// Upload captures the last multipart request seen on /file2text.
type Upload struct {
	ContentLength int64
	BodyLength    int
	ContentType   string
	FieldName     string
	FileName      string
	PartType      string
	Data          []byte
}

// Server is a running fake. It records every request path.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	hits    map[string]int
	bodies  map[string][]byte
	headers map[string]http.Header
	upload  Upload
	opts    Options
}

// New starts a fake server and registers its shutdown with t.Cleanup.
func New(t testing.TB, opts Options) *Server {
	t.Helper()
	if opts.Version == 0 {
		opts.Version = Version
	}
	s := &Server{
		hits:    make(map[string]int),
		bodies:  make(map[string][]byte),
		headers: make(map[string]http.Header),
		opts:    opts,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests on any path.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// LastBody returns the most recent request body sent to path.
func (s *Server) LastBody(path string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.bodies[path]...)
}

// LastHeader returns the headers of the most recent request sent to path.
func (s *Server) LastHeader(path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[path].Clone()
}

// LastUpload returns what the most recent /file2text request carried.
func (s *Server) LastUpload() Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	up := s.upload
	up.Data = append([]byte(nil), s.upload.Data...)
	return up
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/info", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"version": s.opts.Version})
	})
	r.Post("/ip2coordinates", s.fixture(func(body []byte) (any, error) {
		var ips []string
		if err := json.Unmarshal(body, &ips); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(ips))
		for _, ip := range ips {
			if loc, ok := ipFixtures[ip]; ok {
				out[ip] = loc
			} else {
				out[ip] = nil
			}
		}
		return out, nil
	}))
	r.Post("/street2coordinates", s.fixture(func(body []byte) (any, error) {
		var addresses []string
		if err := json.Unmarshal(body, &addresses); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(addresses))
		for _, address := range addresses {
			if loc, ok := streetFixtures[address]; ok {
				out[address] = loc
			} else {
				out[address] = nil
			}
		}
		return out, nil
	}))
	r.Post("/coordinates2politics", s.fixture(func(body []byte) (any, error) {
		var pairs [][2]float64
		if err := json.Unmarshal(body, &pairs); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, map[string]any{
				"location": map[string]float64{"latitude": p[0], "longitude": p[1]},
				"politics": politicsFixture,
			})
		}
		return out, nil
	}))
	r.Post("/coordinates2statistics", s.fixture(func(body []byte) (any, error) {
		var pairs [][2]float64
		if err := json.Unmarshal(body, &pairs); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, map[string]any{
				"location":   map[string]float64{"latitude": p[0], "longitude": p[1]},
				"statistics": statisticsFixture,
			})
		}
		return out, nil
	}))
	r.Post("/text2places", s.fixture(func([]byte) (any, error) { return placesFixture, nil }))
	r.Post("/text2people", s.fixture(func([]byte) (any, error) { return peopleFixture, nil }))
	r.Post("/text2times", s.fixture(func([]byte) (any, error) { return TimesFixture, nil }))
	r.Post("/text2sentences", s.fixture(func(body []byte) (any, error) {
		return map[string]string{"sentences": string(body) + " \n"}, nil
	}))
	r.Post("/text2sentiment", s.fixture(func([]byte) (any, error) {
		return map[string]float64{"score": 3.0}, nil
	}))
	r.Post("/html2text", s.fixture(func([]byte) (any, error) {
		return map[string]string{"text": "Some text that should show up\n"}, nil
	}))
	r.Post("/html2story", s.fixture(func([]byte) (any, error) {
		return map[string]string{"story": "\n"}, nil
	}))
	r.Get("/maps/api/geocode/json", s.fixture(func([]byte) (any, error) { return geocodeFixture, nil }))
	r.Post("/file2text", s.file2text)
	return r
}

// record reads and stores the request body before routing, then replays it.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.bodies[r.URL.Path] = body
		s.headers[r.URL.Path] = r.Header.Clone()
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) fixture(build func(body []byte) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if msg, ok := s.opts.Errors[r.URL.Path]; ok {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
			return
		}
		if raw, ok := s.opts.Raw[r.URL.Path]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, raw)
			return
		}
		body, _ := io.ReadAll(r.Body)
		payload, err := build(body)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": r.URL.Path + " error: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func (s *Server) file2text(w http.ResponseWriter, r *http.Request) {
	if msg, ok := s.opts.Errors[r.URL.Path]; ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}
	raw, _ := io.ReadAll(r.Body)
	up := Upload{
		ContentLength: r.ContentLength,
		BodyLength:    len(raw),
		ContentType:   r.Header.Get("Content-Type"),
	}

	_, params, err := mime.ParseMediaType(up.ContentType)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Something went wrong with the file uploading"})
		return
	}
	reader := multipart.NewReader(bytes.NewReader(raw), params["boundary"])
	part, err := reader.NextPart()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Something went wrong with the file uploading"})
		return
	}
	up.FieldName = part.FormName()
	up.FileName = part.FileName()
	up.PartType = part.Header.Get("Content-Type")
	up.Data, _ = io.ReadAll(part)

	s.mu.Lock()
	s.upload = up
	s.mu.Unlock()

	if canned, ok := s.opts.Raw[r.URL.Path]; ok {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, canned)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", `attachment; filename="`+up.FileName+`.txt"`)
	_, _ = w.Write(up.Data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
