package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/engine"
	"github.com/glimmerlab/ornascene/gesture"
	"github.com/glimmerlab/ornascene/gltfexport"
	"github.com/glimmerlab/ornascene/layout"
	"github.com/glimmerlab/ornascene/scene"
	"github.com/glimmerlab/ornascene/utils"
	"github.com/glimmerlab/ornascene/web"
)

func main() {
	var addr, cfgpath, webpath, export string
	var seed int64
	var gestureAssembly, dump bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&cfgpath, "config", "", "Path to yaml config (defaults used when empty)")
	flag.StringVar(&webpath, "web", "./web", "Path to folder with renderer page in data/ subfolder")
	flag.StringVar(&export, "export", "", "Write the assembled scene as glTF to this file and exit")
	flag.Int64Var(&seed, "seed", 0, "Layout jitter seed, 0 - time-seeded")
	flag.BoolVar(&gestureAssembly, "gesture-toggles", false, "Hand detection drives the assembly target")
	flag.BoolVar(&dump, "dump", false, "Dump effective config on start")
	flag.Parse()

	var cfg *config.Config
	var err error
	if cfgpath != "" {
		cfg, err = config.Load(cfgpath)
	} else {
		cfg = config.Default()
		err = cfg.Validate()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if gestureAssembly {
		cfg.Input.GestureDrivesAssembly = true
	}

	if dump {
		utils.Dump(cfg)
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	gen, err := layout.New(&cfg.Layout, rng)
	if err != nil {
		log.Fatalf("Failed to create layout: %v", err)
	}
	coll, err := scene.NewCollection(cfg, gen)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	log.Printf("[main] Built scene with %d instances", len(coll.Instances))

	if export != "" {
		f, err := os.Create(export)
		if err != nil {
			log.Fatalf("Failed to create %q: %v", export, err)
		}
		defer f.Close()
		if err := gltfexport.WriteFormed(f, coll); err != nil {
			log.Fatalf("Failed to export: %v", err)
		}
		log.Printf("[main] Exported assembled scene to %q", export)
		return
	}

	slot := gesture.NewSlot()
	e := engine.New(cfg, coll, slot)

	if err := web.StartServer(addr, e, slot, webpath); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
