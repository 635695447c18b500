// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"github.com/go-playground/validator/v10"
	"github.com/sassoftware/toc-xtract/logger"
)

type Config struct {
	MaxConcurrentExtractions int    `validate:"min=1,max=10"`
	MaxWorkers               int    `validate:"min=1,max=10"`
	TitleSeparator           string `validate:"required"`
	DebugOn                  bool
	Logger                   logger.LogFunc
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentExtractions: 5,
		MaxWorkers:               1,
		TitleSeparator:           DefaultTitleSeparator,
		DebugOn:                  false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
