// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"os"

	"hermannm.dev/devlog"
)

var level slog.LevelVar

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
		Level: &level,
	})))
}
