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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviszhen/gather/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file. default: tester.toml in . or etc/gather")
	initGatherCmd()
	initConfigCmd()
}

var testerCfg = util.DefaultConfig()

///root cmd

var info = "tester"
var RootCmd = &cobra.Command{
	Use:          "tester",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use tester --help or -h")
	},
}

func initDebugOptions() {
	testerCfg.Log.Level = viper.GetString("log.level")
	testerCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	testerCfg.Debug.PrintSchema = viper.GetBool("debug.printSchema")
	testerCfg.Debug.MaxOutputRowCount = viper.GetInt("debug.maxOutputRowCount")
}

//gather cmd

var gatherInfo = "load a table and gather rows from it by chunk addresses"
var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: gatherInfo,
	Long:  gatherInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initGatherCfg(); err != nil {
			return err
		}
		if err := util.InitLogger(testerCfg.Log.Level); err != nil {
			return err
		}
		defer util.SyncLogger()
		return Run(testerCfg)
	},
}

func initGatherCfg() error {
	initDebugOptions()
	testerCfg.Input.Path = viper.GetString("input.path")
	testerCfg.Input.Format = viper.GetString("input.format")
	testerCfg.Input.ChunkRows = viper.GetInt("input.chunkRows")
	if err := viper.UnmarshalKey("input.columns", &testerCfg.Input.Columns); err != nil {
		return err
	}
	testerCfg.Address.Pattern = viper.GetString("address.pattern")
	testerCfg.Address.Count = viper.GetInt("address.count")
	testerCfg.Address.Stride = viper.GetInt("address.stride")
	testerCfg.Address.Seed = viper.GetInt64("address.seed")
	testerCfg.Address.NullEvery = viper.GetInt("address.nullEvery")
	testerCfg.Gather.Parallel = viper.GetBool("gather.parallel")
	testerCfg.Gather.MaxWorkers = viper.GetInt("gather.maxWorkers")
	testerCfg.Gather.ChunkBits = viper.GetInt("gather.chunkBits")
	testerCfg.Gather.CompactViews = viper.GetBool("gather.compactViews")
	testerCfg.Gather.Checked = viper.GetBool("gather.checked")
	return nil
}

func initGatherCmd() {
	RootCmd.AddCommand(gatherCmd)
	def := util.DefaultConfig()
	flags := gatherCmd.Flags()
	flags.String("data_path", def.Input.Path, "input data path")
	flags.String("data_format", def.Input.Format, "input data format. csv, parquet")
	flags.Int("chunk_rows", def.Input.ChunkRows, "rows per chunk when loading")
	flags.String("pattern", def.Address.Pattern, "address pattern. identity, reverse, stride, random")
	flags.Int("count", def.Address.Count, "address count. 0 means the table height")
	flags.Int("stride", def.Address.Stride, "distance between addressed rows for the stride pattern")
	flags.Int64("seed", def.Address.Seed, "seed of the random pattern")
	flags.Int("null_every", def.Address.NullEvery, "make every n-th address null. 0 disables it")
	flags.Bool("parallel", def.Gather.Parallel, "gather columns in parallel")
	flags.Int("max_workers", def.Gather.MaxWorkers, "parallel gather workers. 0 means one per column")
	flags.Int("chunk_bits", def.Gather.ChunkBits, "address bits naming the chunk. 16, 24, 32")
	flags.Bool("compact_views", def.Gather.CompactViews, "compact string buffers of the result")
	flags.Bool("checked", def.Gather.Checked, "validate addresses before gathering")
	flags.String("log_level", def.Log.Level, "log level. debug, info, warn, error")
	flags.Bool("print_result", def.Debug.PrintResult, "log the result rows")
	flags.Bool("print_schema", def.Debug.PrintSchema, "print the result layout")
	flags.Int("max_output_rows", def.Debug.MaxOutputRowCount, "max result rows to log")

	viper.BindPFlag("input.path", flags.Lookup("data_path"))
	viper.BindPFlag("input.format", flags.Lookup("data_format"))
	viper.BindPFlag("input.chunkRows", flags.Lookup("chunk_rows"))
	viper.BindPFlag("address.pattern", flags.Lookup("pattern"))
	viper.BindPFlag("address.count", flags.Lookup("count"))
	viper.BindPFlag("address.stride", flags.Lookup("stride"))
	viper.BindPFlag("address.seed", flags.Lookup("seed"))
	viper.BindPFlag("address.nullEvery", flags.Lookup("null_every"))
	viper.BindPFlag("gather.parallel", flags.Lookup("parallel"))
	viper.BindPFlag("gather.maxWorkers", flags.Lookup("max_workers"))
	viper.BindPFlag("gather.chunkBits", flags.Lookup("chunk_bits"))
	viper.BindPFlag("gather.compactViews", flags.Lookup("compact_views"))
	viper.BindPFlag("gather.checked", flags.Lookup("checked"))
	viper.BindPFlag("log.level", flags.Lookup("log_level"))
	viper.BindPFlag("debug.printResult", flags.Lookup("print_result"))
	viper.BindPFlag("debug.printSchema", flags.Lookup("print_schema"))
	viper.BindPFlag("debug.maxOutputRowCount", flags.Lookup("max_output_rows"))
}

//config cmd

var configInfo = "print the effective gather config as toml"
var configCmd = &cobra.Command{
	Use:   "config",
	Short: configInfo,
	Long:  configInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initGatherCfg(); err != nil {
			return err
		}
		return util.WriteConfig(cmd.OutOrStdout(), testerCfg)
	},
}

func initConfigCmd() {
	RootCmd.AddCommand(configCmd)
	// the config command reports the same keys as gather
	configCmd.Flags().AddFlagSet(gatherCmd.Flags())
}

var cfgFile string
var defCfgFilePaths = []string{".", "etc/gather"}
var cfgFileName = "tester.toml"

func loadConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			util.Error("viper load config file failed",
				zap.String("fpath", cfgFile),
				zap.Error(err))
			os.Exit(1)
		}
		return
	}
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			err := viper.ReadInConfig()
			if err != nil {
				util.Error("viper load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			return
		}
	}
	util.Debug("no tester.toml found, using flags and defaults")
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
