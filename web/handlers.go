package web

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/gltfexport"
	"github.com/glimmerlab/ornascene/webutils"
)

func (s *Server) HandlerScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.engine.Describe())
}

func (s *Server) HandlerSnapshot(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.engine.Snapshot())
}

// HandlerConfig serves the active configuration on GET; a POST replaces it
// and rebuilds the collection wholesale.
func (s *Server) HandlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		webutils.WriteJson(w, s.engine.Config())
		return
	}
	cfg := config.Default()
	if err := webutils.ReadJson(r, cfg); err != nil {
		webutils.WriteError(w, err)
		return
	}
	if err := s.engine.Reconfigure(cfg); err != nil {
		log.Printf("[web] Reconfigure rejected: %v", err)
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, cfg)
}

// HandlerAssembly sets the assembly target: a float in [0, 1] or the
// aliases "chaos" / "formed".
func (s *Server) HandlerAssembly(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["value"]
	var target float64
	switch raw {
	case "chaos":
		target = 0
	case "formed":
		target = 1
	default:
		var err error
		target, err = strconv.ParseFloat(raw, 32)
		if err != nil {
			webutils.WriteError(w, errors.Errorf("Assembly value %q is not a number", raw))
			return
		}
		if target < 0 || target > 1 {
			webutils.WriteError(w, errors.Errorf("Assembly value %v outside [0, 1]", target))
			return
		}
	}
	s.engine.SetAssemblyTarget(float32(target))
	webutils.WriteJson(w, map[string]float32{"target": s.engine.AssemblyTarget()})
}

func (s *Server) HandlerExportGLTF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := gltfexport.WriteSnapshot(&buf, s.engine.Snapshot()); err != nil {
		log.Printf("[web] glTF export failed: %v", err)
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, "scene.gltf")
}
