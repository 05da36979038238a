// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "il-ilce",
	Short: "vaka koordinatlarını il ve ilçe ile zenginleştirir",
	Long: `
il-ilce bir Excel dosyasındaki vaka koordinatlarını ters geokodlama ile
il ve ilçe bilgisine çevirir, vaka ile bayi arasındaki kuş uçuşu ve
gerçek yol mesafelerini hesaplar ve sonucu yeni bir Excel dosyasına yazar.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
