package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhr613/Location-QA-Assistant/internal/config"
	"github.com/dhr613/Location-QA-Assistant/internal/state"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one travel question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		mode, _ := cmd.Flags().GetString("mode")
		threadID, _ := cmd.Flags().GetString("thread")
		save, _ := cmd.Flags().GetBool("save")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		eng, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var (
			store   state.ThreadStore
			thread  *state.Thread
			durable bool
		)
		if threadID != "" || save {
			db, err := openThreadStore()
			if err != nil {
				return err
			}
			defer db.Close()
			store = db
			durable = true
		} else {
			store = state.NewMemoryStore()
		}
		if threadID != "" {
			thread, err = store.Load(threadID)
			if err != nil {
				return err
			}
			if mode == "" {
				mode = thread.Mode
			}
		} else {
			if mode == "" {
				mode = cfg.Defaults.Mode
			}
			thread = state.NewThread(truncateTitle(query), mode)
		}

		stream, err := eng.ask(cmd.Context(), thread.State, mode, query)
		if err != nil {
			return err
		}

		progressLine := color.New(color.FgHiBlack)
		errorLine := color.New(color.FgRed)
		for chunk := range stream {
			switch {
			case strings.HasPrefix(chunk, "处理出错"):
				errorLine.Println(chunk)
			case strings.HasPrefix(chunk, "已完成") || strings.HasSuffix(chunk, "已返回结果"):
				progressLine.Println("· " + chunk)
			default:
				fmt.Println(chunk)
			}
		}

		if err := store.Save(thread); err != nil {
			return err
		}
		if usage := eng.usage(); usage != "" {
			progressLine.Println(usage)
		}
		if durable {
			progressLine.Printf("thread: %s\n", thread.ID)
		}
		return nil
	},
}

func truncateTitle(query string) string {
	runes := []rune(query)
	if len(runes) > 30 {
		return string(runes[:30]) + "…"
	}
	return query
}

func openThreadStore() (*state.DB, error) {
	store, err := state.Open(state.DefaultDBPath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func init() {
	askCmd.Flags().String("mode", "", "controller mode (pipeline, steps, delegate, graph, skills)")
	askCmd.Flags().String("thread", "", "resume an existing thread by ID")
	askCmd.Flags().Bool("save", false, "persist the conversation as a new thread")
}
