// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"io"

	"github.com/BurntSushi/toml"
)

type ColumnOptions struct {
	Name  string `tag:"name" toml:"name"`
	Type  string `tag:"type" toml:"type"`
	Width int    `tag:"width" toml:"width"`
	Scale int    `tag:"scale" toml:"scale"`
}

type InputOptions struct {
	Path      string          `tag:"path" toml:"path"`
	Format    string          `tag:"format" toml:"format"`
	ChunkRows int             `tag:"chunkRows" toml:"chunkRows"`
	Columns   []ColumnOptions `tag:"columns" toml:"columns"`
}

type AddressOptions struct {
	//identity, reverse, stride, random
	Pattern string `tag:"pattern" toml:"pattern"`
	Count   int    `tag:"count" toml:"count"`
	Stride  int    `tag:"stride" toml:"stride"`
	Seed    int64  `tag:"seed" toml:"seed"`
	//every n-th address becomes the null sentinel. 0 disables it.
	NullEvery int `tag:"nullEvery" toml:"nullEvery"`
}

type GatherOptions struct {
	Parallel     bool `tag:"parallel" toml:"parallel"`
	MaxWorkers   int  `tag:"maxWorkers" toml:"maxWorkers"`
	ChunkBits    int  `tag:"chunkBits" toml:"chunkBits"`
	CompactViews bool `tag:"compactViews" toml:"compactViews"`
	Checked      bool `tag:"checked" toml:"checked"`
}

type LogOptions struct {
	Level string `tag:"level" toml:"level"`
}

type DebugOptions struct {
	PrintResult       bool `tag:"printResult" toml:"printResult"`
	PrintSchema       bool `tag:"printSchema" toml:"printSchema"`
	MaxOutputRowCount int  `tag:"maxOutputRowCount" toml:"maxOutputRowCount"`
}

type Config struct {
	Input   InputOptions   `tag:"input" toml:"input"`
	Address AddressOptions `tag:"address" toml:"address"`
	Gather  GatherOptions  `tag:"gather" toml:"gather"`
	Log     LogOptions     `tag:"log" toml:"log"`
	Debug   DebugOptions   `tag:"debug" toml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Input: InputOptions{
			Format:    "parquet",
			ChunkRows: DefaultVectorSize,
		},
		Address: AddressOptions{
			Pattern: "identity",
			Stride:  1,
		},
		Gather: GatherOptions{
			ChunkBits: 24,
		},
		Log: LogOptions{
			Level: "info",
		},
		Debug: DebugOptions{
			MaxOutputRowCount: 20,
		},
	}
}

func LoadConfigFile(path string, cfg *Config) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func WriteConfig(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
