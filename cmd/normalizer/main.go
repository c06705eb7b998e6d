// Package main provides the normalizer command-line tool: it runs the
// normalization and schema validation of one cycle on local JSON files.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"contentpoller/internal/models"
	"contentpoller/internal/normalizer"
)

func main() {
	articlePath := flag.String("article", "", "Path to an article detail JSON file")
	mediaPath := flag.String("media", "", "Path to the article's media collection JSON file (optional)")
	articleURL := flag.String("url", "", "URL stamped on the canonical article (default: file URL of -article)")
	outputPath := flag.String("output", "", "Path to output JSON file (default: stdout)")
	flag.Parse()

	if *articlePath == "" {
		fmt.Println("Usage: normalizer -article <article.json> [-media <media.json>] [-url <url>] [-output <out.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	article, err := readDocument(*articlePath)
	if err != nil {
		log.Fatalf("Error reading article: %v\n", err)
	}

	var media []models.Document

	if *mediaPath != "" {
		media, err = readMedia(*mediaPath)
		if err != nil {
			// Unusable media is an empty collection, as during a cycle.
			fmt.Fprintf(os.Stderr, "⚠️  Ignoring media file: %v\n", err)
		}
	}

	url := *articleURL
	if url == "" {
		abs, absErr := filepath.Abs(*articlePath)
		if absErr != nil {
			log.Fatalf("Error resolving path: %v\n", absErr)
		}

		url = "file://" + filepath.ToSlash(abs)
	}

	id, ok := article.ID()
	if !ok {
		id = models.ArticleID(filepath.Base(*articlePath))
	}

	result, err := normalizer.NewProcessor().Process(id, url, article, media)
	if err != nil {
		var failure *models.ArticleError
		if !errors.As(err, &failure) {
			log.Fatalf("Error normalizing article: %v\n", err)
		}

		fmt.Fprintf(os.Stderr, "❌ Article %s rejected (%s)\n", failure.ArticleID, failure.Kind)

		writeJSON(os.Stderr, "", failure)
		os.Exit(1)
	}

	writeJSON(os.Stdout, *outputPath, result)
}

func readDocument(path string) (models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := models.DecodeDocument(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

func readMedia(path string) ([]models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	media, err := models.DecodeMedia(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return media, nil
}

func writeJSON(stdout *os.File, path string, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if path == "" {
		fmt.Fprintln(stdout, string(jsonData))

		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("Error creating directory: %v\n", err)
	}

	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Saved to: %s\n", path)
}
