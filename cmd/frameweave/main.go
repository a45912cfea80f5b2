package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"frameweave/internal/camera"
	"frameweave/internal/config"
	"frameweave/internal/export"
	"frameweave/internal/logging"
	"frameweave/internal/playback"
	"frameweave/internal/scenario"
	"frameweave/internal/sequencer"
	"frameweave/internal/source"
	"frameweave/internal/system"
	"frameweave/internal/timeline"
)

const scenariosDir = "input/scenarios"

func main() {
	logf := logging.Default()
	system.InitResourceLimits(logf)

	for _, d := range []string{"input/clips", scenariosDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	scenarioPtr := flag.String("scenario", "", "Scenario YAML (default: latest file in input/scenarios/)")
	clipsPtr := flag.String("clips", "input/clips", "Clip library: subdirectories are image sequences, loose images are stills")
	pdfPtr := flag.String("pdf", "", "Use a PDF as the clip pool instead, one clip per page")
	outputPtr := flag.String("output", "", "Video output path (default: generated in output/)")
	framesPtr := flag.String("frames", "", "Write a PNG sequence into this directory instead of encoding a video")
	framePtr := flag.Int("frame", -1, "Scrub one frame, print the resulting state and exit")
	generatePtr := flag.Bool("generate-scenario", false, "Write a starter scenario for the clip pool and exit")
	widthPtr := flag.Int("width", 1280, "Canvas width")
	heightPtr := flag.Int("height", 720, "Canvas height")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "PNG encode workers")
	dpiPtr := flag.Int("dpi", 150, "PDF render DPI")
	stillPtr := flag.Float64("still", 3.0, "Hold duration for still clips (seconds)")
	fpsPtr := flag.Int("fps", 30, "Frame rate used when generating a scenario")
	qualityPtr := flag.Int("quality", 23, "Encoder quality (x264 CRF, NVENC CQ, VideoToolbox bitrate units)")
	qrPtr := flag.String("qr", "", "Link shown as a QR code over the final frames")
	qrFramesPtr := flag.Int("qr-frames", 90, "How many tail frames carry the QR code")
	debugPtr := flag.Bool("debug", false, "Draw the scrub-position bar and append benchmark.log")
	flag.Parse()

	cfg := &config.Config{
		ScenarioPath:  *scenarioPtr,
		ClipsPath:     *clipsPtr,
		PDFPath:       *pdfPtr,
		OutputVideo:   *outputPtr,
		OutputFrames:  *framesPtr,
		Width:         *widthPtr,
		Height:        *heightPtr,
		FPS:           *fpsPtr,
		Workers:       *workersPtr,
		DPI:           *dpiPtr,
		StillDuration: *stillPtr,
		Quality:       *qualityPtr,
		OutroLink:     *qrPtr,
		OutroFrames:   *qrFramesPtr,
		Debug:         *debugPtr,
	}

	if *generatePtr {
		if err := generateScenario(cfg, logf); err != nil {
			log.Fatalf("[-] Scenario generation failed: %v", err)
		}
		return
	}

	scenarioPath := cfg.ScenarioPath
	if scenarioPath == "" {
		latest, err := scenario.FindLatest(scenariosDir)
		if err != nil {
			log.Fatalf("[-] %v. Run with -generate-scenario first or pass -scenario", err)
		}
		scenarioPath = latest
		fmt.Printf("[*] Using scenario: %s\n", scenarioPath)
	}

	scn, err := scenario.ReadScenario(scenarioPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	cfg.FPS = scn.FPS
	cfg.BlendFrames = scn.BlendFrames
	cfg.SmoothCamera = scn.SmoothCamera

	pool, err := openPool(cfg, scn.FPS)
	if err != nil {
		log.Fatalf("[-] Clip pool error: %v", err)
	}
	defer pool.Close()

	engine := &playback.ImageEngine{Width: cfg.Width, Height: cfg.Height}
	sink := camera.NewState()

	ctrl, err := sequencer.New(engine, pool, sink, scn.Options(), logf)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	defer ctrl.Teardown()

	fmt.Println("--- [FRAMEWEAVE TIMELINE] ---")
	for _, b := range ctrl.Bindings() {
		status := "ok"
		if b.Clip == nil {
			status = "UNRESOLVED"
		}
		fmt.Printf("[*] %-20s frames %5d..%-5d (%s)\n", b.Name, b.StartFrame, b.EndFrame, status)
	}
	fmt.Printf("[*] Total: %d frames @ %d fps | blend %d frames | canvas %dx%d\n",
		ctrl.TotalFrames(), cfg.FPS, cfg.BlendFrames, cfg.Width, cfg.Height)
	fmt.Println("-----------------------------")

	if *framePtr >= 0 {
		ctrl.SetFrame(*framePtr)
		fmt.Printf("[*] Frame %d/%d (t=%.3fs)\n", ctrl.CurrentFrame(), ctrl.TotalFrames(), ctrl.CurrentTime())
		fmt.Printf("[*] Camera: pos=%v rot=%v\n", sink.Pos, sink.Rot)
		if err := writeFramePNG(engine, ctrl.CurrentFrame()); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}

	var overlays []export.Overlay
	if cfg.Debug {
		overlays = append(overlays, &export.ProgressOverlay{})
	}
	if cfg.OutroLink != "" {
		qr, err := export.NewQROverlay(cfg.OutroLink, 96, cfg.OutroFrames)
		if err != nil {
			log.Fatalf("[-] QR overlay: %v", err)
		}
		overlays = append(overlays, qr)
	}

	exporter := &export.Exporter{
		Controller: ctrl,
		Frames:     engine,
		Overlays:   overlays,
		Logf:       logf,
	}

	params := config.ExportParams{
		FPS:     cfg.FPS,
		Workers: cfg.Workers,
		Quality: cfg.Quality,
		Debug:   cfg.Debug,
	}

	if cfg.OutputFrames != "" {
		if err := exporter.ExportPNG(context.Background(), params, cfg.OutputFrames); err != nil {
			log.Fatalf("[-] PNG export failed: %v", err)
		}
		fmt.Printf("[+++] Done! Frames in %s\n", cfg.OutputFrames)
		return
	}

	cfg.VideoEncoder = system.BestH264Encoder()
	params.VideoEncoder = cfg.VideoEncoder
	if params.VideoEncoder != "libx264" {
		fmt.Printf("[*] Hardware encoder detected: %s\n", params.VideoEncoder)
	}

	output := cfg.OutputVideo
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		output = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", base, timestamp))
	}

	if err := exporter.ExportVideo(context.Background(), params, output); err != nil {
		log.Fatalf("[-] Export failed: %v", err)
	}
	fmt.Printf("[+++] Done! Result: %s\n", output)
}

func openPool(cfg *config.Config, fps int) (source.Pool, error) {
	if cfg.PDFPath != "" {
		return source.NewPDFPool(cfg.PDFPath, cfg.DPI, cfg.StillDuration)
	}
	if fps <= 0 {
		fps = 30
	}
	return source.NewImagePool(cfg.ClipsPath, fps, cfg.StillDuration)
}

// generateScenario writes a starter scenario covering every clip in the pool
// with a dolly camera path across the clip boundaries.
func generateScenario(cfg *config.Config, logf logging.Func) error {
	pool, err := openPool(cfg, cfg.FPS)
	if err != nil {
		return err
	}
	defer pool.Close()

	var descriptors []timeline.Descriptor
	var refs []scenario.ClipRef
	for _, clip := range pool.Clips() {
		descriptors = append(descriptors, timeline.Descriptor{Name: clip.Name()})
		refs = append(refs, scenario.ClipRef{Name: clip.Name()})
	}

	bindings, err := timeline.Resolve(descriptors, pool, cfg.FPS, logf)
	if err != nil {
		return err
	}
	total := timeline.Layout(bindings)
	if total == 0 {
		return fmt.Errorf("clip pool is empty, nothing to put on a timeline")
	}

	flat := make([]timeline.Binding, len(bindings))
	for i, b := range bindings {
		flat[i] = *b
	}

	scn := &scenario.Scenario{
		Version:      "1.0",
		FPS:          cfg.FPS,
		BlendFrames:  10,
		SmoothCamera: true,
		Clips:        refs,
		Camera:       scenario.GenerateCamera(flat, total),
	}

	path := scenario.GeneratePath(scenariosDir)
	if err := scenario.WriteScenario(scn, path); err != nil {
		return err
	}
	fmt.Printf("[+++] Done! Scenario saved: %s\n", path)
	return nil
}

func writeFramePNG(engine *playback.ImageEngine, frame int) error {
	path := filepath.Join("output", fmt.Sprintf("frame_%05d.png", frame))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, engine.Frame()); err != nil {
		return err
	}
	fmt.Printf("[*] Frame written: %s\n", path)
	return nil
}
