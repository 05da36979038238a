// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ealevli/il-ilce-eslestirme/geocode"
)

var illerCmd = &cobra.Command{
	Use:   "iller",
	Short: "Tanınan illeri plaka sırasıyla listeler",
	Run: func(_ *cobra.Command, _ []string) {
		a, b := strings.Repeat("─", 5), strings.Repeat("─", 20)
		fmt.Println("Tanınan iller:")
		fmt.Printf("╭─%5s─┬─%-20s─╮\n", a, b)
		fmt.Printf("│ %5s │ %-20s │\n", "Plaka", "İl")
		fmt.Printf("├─%5s─┼─%-20s─┤\n", a, b)

		for i, province := range geocode.Provinces {
			fmt.Printf("│ %5d │ %-20s │\n", i+1, province)
		}

		fmt.Printf("╰─%5s─┴─%-20s─╯\n", a, b)
	},
}

func init() {
	rootCmd.AddCommand(illerCmd)
}
