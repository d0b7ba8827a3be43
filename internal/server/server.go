package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pipeline"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
	"github.com/ironsheep/pixelart-tools/internal/worker"
)

// Request is the envelope for every incoming message. Fields beyond Type
// and ID are populated per request type.
type Request struct {
	Type string      `json:"type"`
	ID   interface{} `json:"id,omitempty"`

	// pixelate
	SourcePixels *pixbuf.Buffer     `json:"sourcePixels,omitempty"`
	Settings     *pipeline.Settings `json:"settings,omitempty"`

	// suggest
	Palette        []pixbuf.RGB `json:"palette,omitempty"`
	NumSuggestions int          `json:"numSuggestions,omitempty"`
	PreferDistinct bool         `json:"preferDistinct,omitempty"`

	// extract_palette
	MaxColors int    `json:"maxColors,omitempty"`
	Method    string `json:"method,omitempty"`
}

// Response is the envelope for every outgoing message. Type is "success",
// "suggestions", "palette", "pong", or "error".
type Response struct {
	Type string      `json:"type"`
	ID   interface{} `json:"id,omitempty"`

	ResultPixels     *pixbuf.Buffer  `json:"resultPixels,omitempty"`
	GeneratedPalette palette.Palette `json:"generatedPalette,omitempty"`
	Suggestions      palette.Palette `json:"suggestions,omitempty"`
	Palette          palette.Palette `json:"palette,omitempty"`
	Message          string          `json:"message,omitempty"`
}

// Server reads requests from in, dispatches conversion work to a worker
// goroutine, and writes responses to out in completion order.
type Server struct {
	in  io.Reader
	enc *json.Encoder
	mu  sync.Mutex // guards enc; responses come from multiple goroutines

	worker *worker.Worker
	wg     sync.WaitGroup
}

// New creates a server bound to stdin/stdout.
func New() *Server {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO creates a server with explicit streams, mainly for tests.
func NewWithIO(in io.Reader, out io.Writer) *Server {
	return &Server{
		in:     in,
		enc:    json.NewEncoder(out),
		worker: worker.New(16),
	}
}

// Run processes requests until the input stream ends, then drains in-flight
// work before returning.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	// Pixel buffers arrive as base64 strings; lines get big.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		s.handleRequest(&req)
	}

	s.wg.Wait()
	s.worker.Close()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest routes one request. Immediate responses (ping, validation
// failures) are written synchronously; conversion work is queued and its
// response written when the worker finishes.
func (s *Server) handleRequest(req *Request) {
	switch req.Type {
	case "pixelate":
		s.handlePixelate(req)
	case "suggest":
		s.handleSuggest(req)
	case "extract_palette":
		s.handleExtractPalette(req)
	case "ping":
		s.send(&Response{Type: "pong", ID: req.ID})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown request type %q", req.Type))
	}
}

func (s *Server) send(resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) sendError(id interface{}, msg string) {
	s.send(&Response{Type: "error", ID: id, Message: msg})
}
