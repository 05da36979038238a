// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ealevli/il-ilce-eslestirme/cache"
	"github.com/ealevli/il-ilce-eslestirme/enrich"
	"github.com/ealevli/il-ilce-eslestirme/geocode"
	"github.com/ealevli/il-ilce-eslestirme/route"
)

var enrichFlags = struct {
	output        string
	geocodeURL    string
	orsURL        string
	dbPath        string
	maxRetries    int
	workers       int
	dryRun        bool
	traceHTTP     bool
	traceHTTPBody bool
}{}

var enrichCmd = &cobra.Command{
	Use:   "enrich <input.xlsx>",
	Short: "Excel dosyasını il, ilçe ve mesafelerle zenginleştirir",
	Long: `
Girdi dosyasında "VAKA Lat", "VAKA Long", "Bayi Enlem" ve "Bayi Boylam"
sütunları bulunmalıdır. Çıktıya "Bulunan İl", "Bulunan İlçe",
"Lineer Mesafe (km)" ve "Reel Yol Mesafesi (km)" sütunları eklenir.

Yol mesafeleri için ORS_API_KEY ortam değişkeni (veya .env dosyası)
gereklidir; anahtar yoksa yalnızca kuş uçuşu mesafeler hesaplanır.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]

		outputPath := enrichFlags.output
		if outputPath == "" {
			outputPath = defaultOutputPath(inputPath)
		}

		var traceWriter io.Writer
		if enrichFlags.traceHTTP || enrichFlags.traceHTTPBody {
			traceWriter = os.Stderr
		}

		geocoder := geocode.NewResolver(
			geocode.NewClient(&geocode.ClientOptions{
				BaseURL:     enrichFlags.geocodeURL,
				UserAgent:   userAgent(),
				TraceWriter: traceWriter,
				TraceBody:   enrichFlags.traceHTTPBody,
			}),
			&geocode.ResolverOptions{MaxRetries: enrichFlags.maxRetries},
		)

		calculator := route.NewCalculator(roadRouterWith(enrichFlags.orsURL, traceWriter,
			enrichFlags.traceHTTPBody))

		var store enrich.ResultCache

		if enrichFlags.dbPath != "" {
			db, err := sql.Open("duckdb", enrichFlags.dbPath)
			if err != nil {
				return fmt.Errorf("opening cache database: %w", err)
			}
			defer db.Close()

			s := cache.NewStore(db)
			if err := s.CreateSchema(); err != nil {
				return fmt.Errorf("creating cache schema: %w", err)
			}

			store = s
		}

		enricher := enrich.NewEnricher(geocoder, calculator, store, enrich.Options{
			Workers: enrichFlags.workers,
			DryRun:  enrichFlags.dryRun,
		})

		if err := enricher.Run(cmd.Context(), inputPath, outputPath); err != nil {
			return err
		}

		if !enrichFlags.dryRun {
			log.Printf("Output written to %s", outputPath)
		}

		return nil
	},
}

// roadRouterWith builds the openrouteservice client, or nil when no API
// key is configured.
func roadRouterWith(orsURL string, traceWriter io.Writer, traceBody bool) route.RoadRouter {
	apiKey := os.Getenv("ORS_API_KEY")
	if apiKey == "" {
		log.Printf("ORS_API_KEY is not set, road distances will be skipped")

		return nil
	}

	return route.NewORSClient(&route.ORSClientOptions{
		BaseURL:     orsURL,
		APIKey:      apiKey,
		TraceWriter: traceWriter,
		TraceBody:   traceBody,
	})
}

func userAgent() string {
	return fmt.Sprintf("il-ilce-eslestirme/%s (+https://github.com/ealevli/il-ilce-eslestirme)", Version)
}

func defaultOutputPath(inputPath string) string {
	if ext := ".xlsx"; strings.HasSuffix(strings.ToLower(inputPath), ext) {
		return inputPath[:len(inputPath)-len(ext)] + "_sonuc" + ext
	}

	return inputPath + "_sonuc.xlsx"
}

func init() {
	// A missing .env file is fine, the environment may carry the key.
	_ = godotenv.Load()

	enrichCmd.Flags().StringVarP(&enrichFlags.output, "output", "o", "",
		"çıktı dosyası (varsayılan: <girdi>_sonuc.xlsx)")
	enrichCmd.Flags().StringVar(&enrichFlags.geocodeURL, "geocode-url", "",
		"Nominatim uç noktası")
	enrichCmd.Flags().StringVar(&enrichFlags.orsURL, "ors-url", "",
		"openrouteservice uç noktası")
	enrichCmd.Flags().StringVar(&enrichFlags.dbPath, "db-path", "",
		"önbellek veritabanı dosyası (boşsa önbellek kapalı)")
	enrichCmd.Flags().IntVar(&enrichFlags.maxRetries, "max-retries", 3,
		"nokta başına en fazla geokodlama denemesi")
	enrichCmd.Flags().IntVar(&enrichFlags.workers, "workers", 0,
		"eşzamanlı yol mesafesi isteği sayısı (0: CPU sayısı)")
	enrichCmd.Flags().BoolVar(&enrichFlags.dryRun, "dry-run", false,
		"servisleri çağırmadan girdiyi doğrula")
	enrichCmd.Flags().BoolVar(&enrichFlags.traceHTTP, "trace-http", false,
		"HTTP isteklerini stderr'e yaz")
	enrichCmd.Flags().BoolVar(&enrichFlags.traceHTTPBody, "trace-http-body", false,
		"HTTP gövdeleri dahil izleme")

	rootCmd.AddCommand(enrichCmd)
}
