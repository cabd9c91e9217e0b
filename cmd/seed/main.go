package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"document-bot-be/internal/config"
	"document-bot-be/internal/repository/implementation"
	"document-bot-be/pkg/database"
	"document-bot-be/pkg/embedding"
	"document-bot-be/pkg/extractor"
	"document-bot-be/pkg/uploader"
)

// Seeds the document index from a local corpus directory. Every text file
// under -dir gets split, embedded and written to the chunk table so the
// assistant has something to retrieve from on a fresh database.
func main() {
	dir := flag.String("dir", "corpus", "directory of text files to index")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	embedder, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatal("Error: Failed to initialize embedding provider:", err)
	}

	index := implementation.NewDocumentIndex(db, embedder)
	up := uploader.NewUploader(cfg.App.LocalStoragePath, extractor.NewBaseExtractor(), embedder, index)

	ctx := context.Background()
	indexed := 0

	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warn: Skipping %s: %v", path, err)
			return nil
		}

		if _, err := up.Upload(ctx, d.Name(), content); err != nil {
			log.Printf("Warn: Failed to index %s: %v", path, err)
			return nil
		}

		log.Printf("Indexed %s", path)
		indexed++
		return nil
	})
	if err != nil {
		log.Fatal("Error: Walking corpus directory:", err)
	}

	log.Printf("Done. Indexed %d files.", indexed)
}
