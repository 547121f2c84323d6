package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhr613/Location-QA-Assistant/internal/config"
	"github.com/dhr613/Location-QA-Assistant/internal/state"
	"github.com/dhr613/Location-QA-Assistant/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat on one conversation thread",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	mode, _ := cmd.Flags().GetString("mode")
	threadID, _ := cmd.Flags().GetString("thread")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	if mode == "" {
		mode = cfg.Defaults.Mode
	}

	store, err := openThreadStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var thread *state.Thread
	if threadID != "" {
		thread, err = store.Load(threadID)
		if err != nil {
			return err
		}
		mode = thread.Mode
	} else {
		thread = state.NewThread("", mode)
	}

	asker := func(ctx context.Context, query string) (<-chan string, error) {
		if thread.Title == "" {
			thread.Title = truncateTitle(query)
		}
		stream, err := eng.ask(ctx, thread.State, mode, query)
		if err != nil {
			return nil, err
		}
		// Persist after each completed request.
		out := make(chan string)
		go forwardAndSave(stream, out, func() error { return store.Save(thread) })
		return out, nil
	}

	chat := tui.NewChat(cmd.Context(), mode, asker)
	chat.Usage = eng.usage
	_, err = tea.NewProgram(chat, tea.WithAltScreen()).Run()
	return err
}

// forwardAndSave relays progress chunks, then persists the thread. A failed
// save surfaces as a final error chunk rather than vanishing.
func forwardAndSave(stream <-chan string, out chan<- string, save func() error) {
	defer close(out)
	for chunk := range stream {
		out <- chunk
	}
	if err := save(); err != nil {
		out <- "处理出错: 保存对话失败: " + err.Error()
	}
}

func init() {
	chatCmd.Flags().String("mode", "", "controller mode (pipeline, steps, delegate, graph, skills)")
	chatCmd.Flags().String("thread", "", "resume an existing thread by ID")
}
