package server

import (
	"fmt"

	"github.com/ironsheep/pixelart-tools/internal/palette"
)

// handlePixelate queues a full conversion. The response is written when the
// worker delivers the result, which may be after later requests have
// already been answered.
func (s *Server) handlePixelate(req *Request) {
	if req.SourcePixels == nil {
		s.sendError(req.ID, "pixelate: missing sourcePixels")
		return
	}
	if req.Settings == nil {
		s.sendError(req.ID, "pixelate: missing settings")
		return
	}
	if err := req.SourcePixels.Validate(); err != nil {
		s.sendError(req.ID, fmt.Sprintf("pixelate: %v", err))
		return
	}

	ch := s.worker.Pixelate(req.SourcePixels, *req.Settings)
	id := req.ID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := <-ch
		if res.Err != nil {
			s.sendError(id, res.Err.Error())
			return
		}
		s.send(&Response{
			Type:             "success",
			ID:               id,
			ResultPixels:     res.Result.Pixels,
			GeneratedPalette: res.Result.GeneratedPalette,
		})
	}()
}

func (s *Server) handleSuggest(req *Request) {
	if req.SourcePixels == nil {
		s.sendError(req.ID, "suggest: missing sourcePixels")
		return
	}
	n := req.NumSuggestions
	if n <= 0 {
		s.sendError(req.ID, "suggest: numSuggestions must be > 0")
		return
	}

	ch := s.worker.Suggest(req.SourcePixels, palette.Palette(req.Palette), n, req.PreferDistinct)
	id := req.ID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := <-ch
		if res.Err != nil {
			s.sendError(id, res.Err.Error())
			return
		}
		s.send(&Response{
			Type:        "suggestions",
			ID:          id,
			Suggestions: res.Suggestions,
		})
	}()
}

// handleExtractPalette runs synchronously: extraction is cheap relative to
// a full conversion and callers use it interactively.
func (s *Server) handleExtractPalette(req *Request) {
	if req.SourcePixels == nil {
		s.sendError(req.ID, "extract_palette: missing sourcePixels")
		return
	}
	if err := req.SourcePixels.Validate(); err != nil {
		s.sendError(req.ID, fmt.Sprintf("extract_palette: %v", err))
		return
	}
	k := req.MaxColors
	if k <= 0 {
		k = 16
	}
	method, err := palette.ParseExtractMethod(req.Method)
	if err != nil {
		s.sendError(req.ID, err.Error())
		return
	}

	pal := palette.ExtractFromBuffer(req.SourcePixels, k, method)
	s.send(&Response{Type: "palette", ID: req.ID, Palette: pal})
}
