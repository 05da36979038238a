// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/ealevli/il-ilce-eslestirme/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
