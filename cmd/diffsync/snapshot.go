/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
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
	"context"
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yorkie-team/diffsync/api/converter"
	"github.com/yorkie-team/diffsync/client"
)

var contentOnly bool

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [entity type] [entity id]",
		Short: "Show the canonical text of an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("entity type and entity id are required")
			}

			entity, err := converter.FromEntity(args[0], args[1])
			if err != nil {
				return err
			}

			cli, err := client.New(viper.GetString("rpc-addr"), client.WithLogger(zap.NewNop()))
			if err != nil {
				return err
			}

			snapshot, err := cli.Snapshot(context.Background(), entity)
			if err != nil {
				return err
			}

			if contentOnly {
				cmd.Print(snapshot.Content)
				return nil
			}

			tw := table.NewWriter()
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.Style().Options.SeparateHeader = false
			tw.AppendHeader(table.Row{"ENTITY", "REVISION", "UPDATED AT", "SIZE"})
			tw.AppendRow(table.Row{
				entity.String(),
				snapshot.Revision,
				snapshot.UpdatedAt.Format("2006-01-02 15:04:05"),
				len(snapshot.Content),
			})
			cmd.Printf("%s\n\n%s\n", tw.Render(), snapshot.Content)
			return nil
		},
	}
}

func init() {
	cmd := newSnapshotCmd()
	cmd.Flags().BoolVar(
		&contentOnly,
		"content-only",
		false,
		"Print only the text",
	)
	rootCmd.AddCommand(cmd)
}
