/*
 * Copyright 2020 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yorkie-team/diffsync/server"
	"github.com/yorkie-team/diffsync/server/backend/database/mongo"
	"github.com/yorkie-team/diffsync/server/logging"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	flagConfPath  string
	flagLogLevel  string
	flagLogFormat string

	rpcReadHeaderTimeout   time.Duration
	housekeepingInterval   time.Duration
	sessionTTL             time.Duration
	patchRetention         time.Duration
	broadcastTimeout       time.Duration
	broadcastWindow        time.Duration
	mongoConnectionURI     string
	mongoConnectionTimeout time.Duration
	mongoDiffSyncDatabase  string
	mongoPingTimeout       time.Duration
	mongoEntityCacheSize   int
	profilingEnabled       bool

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start DiffSync server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyEnv(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.RPC.ReadHeaderTimeout = rpcReadHeaderTimeout.String()

			conf.Housekeeping.Interval = housekeepingInterval.String()
			conf.Housekeeping.SessionTTL = sessionTTL.String()
			conf.Housekeeping.PatchRetention = patchRetention.String()

			conf.Backend.BroadcastTimeout = broadcastTimeout.String()
			conf.Backend.BroadcastWindow = broadcastWindow.String()

			if !profilingEnabled {
				conf.Profiling = nil
			}

			if mongoConnectionURI != "" {
				conf.Mongo = &mongo.Config{
					ConnectionURI:     mongoConnectionURI,
					ConnectionTimeout: mongoConnectionTimeout.String(),
					DiffSyncDatabase:  mongoDiffSyncDatabase,
					PingTimeout:       mongoPingTimeout.String(),
					EntityCacheSize:   mongoEntityCacheSize,
				}
			}

			// If config file is given, command-line arguments will be overwritten.
			if flagConfPath != "" {
				parsed, err := server.NewConfigFromFile(flagConfPath)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogLevel(flagLogLevel); err != nil {
				return err
			}
			if err := logging.SetLogFormat(flagLogFormat); err != nil {
				return err
			}

			r, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := r.Start(); err != nil {
				return err
			}

			if code := handleSignal(r); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

// applyEnv fills the flags not given on the command line from DIFFSYNC_*
// environment variables, e.g. DIFFSYNC_RPC_PORT for --rpc-port.
func applyEnv(flags *pflag.FlagSet) error {
	if err := viper.BindPFlags(flags); err != nil {
		return err
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if setErr := flags.Set(f.Name, viper.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("set %s from env: %w", f.Name, setErr)
		}
	})
	return err
}

func handleSignal(r *server.DiffSync) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-r.ShutdownCh():
		// the server is already shutdown
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := r.Shutdown(graceful); err != nil {
			logging.DefaultLogger().Error(err)
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().StringVarP(
		&flagConfPath,
		"config",
		"c",
		"",
		"Config path",
	)
	cmd.Flags().StringVarP(
		&flagLogLevel,
		"log-level",
		"l",
		"info",
		"Log level: debug, info, warn, error, panic, fatal",
	)
	cmd.Flags().StringVar(
		&flagLogFormat,
		"log-format",
		"console",
		"Log format: console, json",
	)
	cmd.Flags().IntVar(
		&conf.RPC.Port,
		"rpc-port",
		server.DefaultRPCPort,
		"RPC port",
	)
	cmd.Flags().StringVar(
		&conf.RPC.CertFile,
		"rpc-cert-file",
		"",
		"RPC certification file's path",
	)
	cmd.Flags().StringVar(
		&conf.RPC.KeyFile,
		"rpc-key-file",
		"",
		"RPC key file's path",
	)
	cmd.Flags().Uint64Var(
		&conf.RPC.MaxRequestBytes,
		"rpc-max-requests-bytes",
		server.DefaultRPCMaxRequestBytes,
		"Maximum client request size in bytes the server will accept.",
	)
	cmd.Flags().DurationVar(
		&rpcReadHeaderTimeout,
		"rpc-read-header-timeout",
		server.DefaultRPCReadHeaderTimeout,
		"Time allowed to read the headers of a request.",
	)
	cmd.Flags().BoolVar(
		&profilingEnabled,
		"enable-profiling",
		true,
		"Serve metrics on the profiling port.",
	)
	cmd.Flags().IntVar(
		&conf.Profiling.Port,
		"profiling-port",
		server.DefaultProfilingPort,
		"Profiling port",
	)
	cmd.Flags().StringVar(
		&conf.Profiling.MetricsPath,
		"metrics-path",
		server.DefaultProfilingMetricsPath,
		"Path of the metrics endpoint on the profiling port",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.EnablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().DurationVar(
		&housekeepingInterval,
		"housekeeping-interval",
		server.DefaultHousekeepingInterval,
		"housekeeping interval between housekeeping runs",
	)
	cmd.Flags().DurationVar(
		&sessionTTL,
		"session-ttl",
		server.DefaultHousekeepingSessionTTL,
		"time after which a session without activity is evicted",
	)
	cmd.Flags().DurationVar(
		&patchRetention,
		"patch-retention",
		server.DefaultPatchRetention,
		"how long the records of handled rounds are kept, zero keeps them forever",
	)
	cmd.Flags().StringVar(
		&mongoConnectionURI,
		"mongo-connection-uri",
		"",
		"MongoDB's connection URI",
	)
	cmd.Flags().DurationVar(
		&mongoConnectionTimeout,
		"mongo-connection-timeout",
		server.DefaultMongoConnectionTimeout,
		"Mongo DB's connection timeout",
	)
	cmd.Flags().StringVar(
		&mongoDiffSyncDatabase,
		"mongo-diffsync-database",
		server.DefaultMongoDiffSyncDatabase,
		"DiffSync's database name in MongoDB",
	)
	cmd.Flags().DurationVar(
		&mongoPingTimeout,
		"mongo-ping-timeout",
		server.DefaultMongoPingTimeout,
		"Mongo DB's ping timeout",
	)
	cmd.Flags().IntVar(
		&mongoEntityCacheSize,
		"mongo-entity-cache-size",
		server.DefaultMongoEntityCacheSize,
		"The number of entities whose canonical text is cached",
	)
	cmd.Flags().StringVar(
		&conf.Backend.ServerID,
		"server-id",
		server.DefaultServerID,
		"ID of this server in the URNs of its sessions, random when empty",
	)
	cmd.Flags().StringVar(
		&conf.Backend.Hostname,
		"hostname",
		server.DefaultHostname,
		"DiffSync Server Hostname",
	)
	cmd.Flags().DurationVar(
		&broadcastTimeout,
		"broadcast-timeout",
		server.DefaultBroadcastTimeout,
		"Time allowed to deliver a change notification to one channel",
	)
	cmd.Flags().DurationVar(
		&broadcastWindow,
		"broadcast-window",
		server.DefaultBroadcastWindow,
		"Minimum interval between two change notifications of the same entity",
	)
	cmd.Flags().IntVar(
		&conf.Backend.MaxHistoryLimit,
		"max-history-limit",
		server.DefaultMaxHistoryLimit,
		"Maximum number of round records returned at once",
	)

	rootCmd.AddCommand(cmd)
}
