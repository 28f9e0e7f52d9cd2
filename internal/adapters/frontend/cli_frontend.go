package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phishguard/phishbot/internal/chat"
	"go.uber.org/zap"
)

// CLIFrontend runs an interactive chat session on stdin/stdout. A line
// naming a readable file is treated as a .eml upload.
type CLIFrontend struct {
	dispatcher *chat.Dispatcher
	logger     *zap.Logger
	done       chan struct{}
}

// NewCLIFrontend creates a new CLI frontend
func NewCLIFrontend(dispatcher *chat.Dispatcher, logger *zap.Logger) *CLIFrontend {
	return &CLIFrontend{
		dispatcher: dispatcher,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start launches the chat loop
func (f *CLIFrontend) Start() error {
	go f.run()
	return nil
}

// Stop is a no-op for the CLI frontend; the loop ends with the session
func (f *CLIFrontend) Stop() error {
	return nil
}

// Done is closed when the conversation ends
func (f *CLIFrontend) Done() <-chan struct{} {
	return f.done
}

func (f *CLIFrontend) run() {
	defer close(f.done)

	const sessionKey = "local"
	ctx := context.Background()

	fmt.Println("phishbot: asistente educativo de phishing. Escribe 'salir' para terminar.")
	fmt.Println("Para analizar un correo, escribe la ruta de un archivo .eml.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if info, err := os.Stat(line); err == nil && !info.IsDir() {
			f.analyzeFile(ctx, sessionKey, line)
			continue
		}

		reply, err := f.dispatcher.HandleMessage(ctx, sessionKey, line)
		if err != nil {
			if errors.Is(err, chat.ErrConversationEnded) {
				fmt.Println(reply.Text)
				return
			}
			f.logger.Error("Failed to handle message", zap.Error(err))
			continue
		}
		fmt.Println(reply.Text)
		if reply.IsGoodbye {
			return
		}
	}
}

func (f *CLIFrontend) analyzeFile(ctx context.Context, sessionKey, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("No pude abrir %s: %v\n", path, err)
		return
	}

	result, err := f.dispatcher.HandleFile(ctx, sessionKey, raw)
	if err != nil {
		f.logger.Error("Failed to analyze file", zap.Error(err), zap.String("file", path))
		fmt.Println("Ocurrió un error analizando el archivo.")
		return
	}
	if !result.OK {
		fmt.Println(result.Error)
		return
	}

	payload := result.Payload
	fmt.Printf("\nRiesgo: %s. %s\n", strings.ToUpper(payload.Risk), payload.Headline)
	if len(payload.Findings) > 0 {
		fmt.Println("Señales:")
		for _, item := range payload.Findings {
			fmt.Printf("  - %s: %s\n", item.Title, item.Detail)
		}
	} else {
		fmt.Println("Sin señales destacables.")
	}
	if len(payload.LinkDomains) > 0 {
		fmt.Printf("Dominios enlazados: %s\n", strings.Join(payload.LinkDomains, ", "))
	}
	fmt.Println("Próximos pasos:")
	for _, tip := range payload.Tips {
		fmt.Printf("  - %s\n", tip)
	}
	fmt.Println()
}
