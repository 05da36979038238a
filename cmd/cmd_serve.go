// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ealevli/il-ilce-eslestirme/enrich"
	"github.com/ealevli/il-ilce-eslestirme/geocode"
	"github.com/ealevli/il-ilce-eslestirme/route"
)

var serveFlags = struct {
	addr          string
	geocodeURL    string
	orsURL        string
	maxRetries    int
	traceHTTP     bool
	traceHTTPBody bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Yerel JSON API sunucusunu başlatır",
	Long: `
Tek tek koordinatları denemek için küçük bir JSON API sunar. Toplu işler
için enrich komutunu kullanın.
`,
	RunE: func(_ *cobra.Command, _ []string) error {
		var traceWriter io.Writer
		if serveFlags.traceHTTP || serveFlags.traceHTTPBody {
			traceWriter = os.Stderr
		}

		geocoder := geocode.NewResolver(
			geocode.NewClient(&geocode.ClientOptions{
				BaseURL:     serveFlags.geocodeURL,
				UserAgent:   userAgent(),
				TraceWriter: traceWriter,
				TraceBody:   serveFlags.traceHTTPBody,
			}),
			&geocode.ResolverOptions{MaxRetries: serveFlags.maxRetries},
		)

		calculator := route.NewCalculator(roadRouterWith(serveFlags.orsURL, traceWriter,
			serveFlags.traceHTTPBody))

		return enrich.NewServer(geocoder, calculator, serveFlags.addr).Run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "localhost:8080",
		"dinlenecek adres")
	serveCmd.Flags().StringVar(&serveFlags.geocodeURL, "geocode-url", "",
		"Nominatim uç noktası")
	serveCmd.Flags().StringVar(&serveFlags.orsURL, "ors-url", "",
		"openrouteservice uç noktası")
	serveCmd.Flags().IntVar(&serveFlags.maxRetries, "max-retries", 3,
		"nokta başına en fazla geokodlama denemesi")
	serveCmd.Flags().BoolVar(&serveFlags.traceHTTP, "trace-http", false,
		"HTTP isteklerini stderr'e yaz")
	serveCmd.Flags().BoolVar(&serveFlags.traceHTTPBody, "trace-http-body", false,
		"HTTP gövdeleri dahil izleme")

	rootCmd.AddCommand(serveCmd)
}
