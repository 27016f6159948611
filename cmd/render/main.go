// Command render is a one-shot CLI around the studio core: prompt plus
// optional reference images in, a rendered file in the export directory out.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"studio/internal/infra"
	"studio/internal/providers/genai"
	"studio/internal/storage"
	"studio/internal/studio"
)

type refList []string

func (r *refList) String() string { return fmt.Sprint(*r) }

func (r *refList) Set(value string) error {
	*r = append(*r, value)
	return nil
}

func main() {
	_ = godotenv.Load()

	var refs refList
	prompt := flag.String("prompt", "", "idea to render")
	aspect := flag.String("aspect", "1:1", "aspect ratio: 1:1, 3:4, 16:9 or 9:16")
	edit := flag.String("edit", "", "optional follow-up edit instruction applied to the first render")
	outDir := flag.String("out", "", "output directory (defaults to EXPORT_DIR)")
	flag.Var(&refs, "ref", "reference image file; repeat for up to five")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fatal(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	client, err := genai.NewClient(genai.Options{
		APIKey:        cfg.GeminiAPIKey,
		BaseURL:       cfg.GeminiBaseURL,
		AnalysisModel: cfg.AnalysisModel,
		ImageModel:    cfg.ImageModel,
		HTTPClient:    &http.Client{Timeout: cfg.RemoteTimeout},
		Logger:        &logger,
	})
	if err != nil {
		fatal(err)
	}

	session, err := studio.NewSession(studio.SessionOptions{
		Renderer: client,
		Logger:   &logger,
	})
	if err != nil {
		fatal(err)
	}
	defer session.Close()

	if err := session.SetAspectRatio(*aspect); err != nil {
		fatal(err)
	}
	if err := session.SetPrompt(*prompt); err != nil {
		fatal(err)
	}

	var files []studio.ReferenceFile
	for _, path := range refs {
		data, err := os.ReadFile(path)
		if err != nil {
			fatal(fmt.Errorf("read reference %s: %w", path, err))
		}
		files = append(files, studio.ReferenceFile{Name: filepath.Base(path), Data: data})
	}
	if len(files) > 0 {
		if _, err := session.AddReferences(files); err != nil {
			fatal(err)
		}
	}

	dir := *outDir
	if dir == "" {
		dir = cfg.ExportDir
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	result, err := session.Generate(ctx)
	if err != nil {
		fatal(err)
	}

	if *edit != "" {
		if err := session.BeginEdit(); err != nil {
			fatal(err)
		}
		result, err = session.ApplyEdit(ctx, *edit)
		if err != nil {
			fatal(err)
		}
	}

	key, err := store.SaveResult(ctx, result)
	if err != nil {
		fatal(err)
	}
	fmt.Println(filepath.Join(store.BasePath(), key))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "render:", err)
	os.Exit(1)
}
