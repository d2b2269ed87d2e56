// Command whispering transcribes an audio file, or cleans up text read from
// --text or stdin, using the configured provider.
//
//	whispering --file memo.webm
//	whispering --file memo.webm --provider Groq --cleanup-prompt "Fix punctuation."
//	echo "um so yeah" | whispering --cleanup-prompt "Remove filler words."
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/whispering/cleanup"
	"github.com/kbukum/whispering/config"
	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/logger"
	"github.com/kbukum/whispering/settings"
	"github.com/kbukum/whispering/transcriber"
	"github.com/kbukum/whispering/transcription"
	"github.com/kbukum/whispering/util"
	"github.com/kbukum/whispering/validation"
	"github.com/kbukum/whispering/version"
)

const serviceName = "whispering"

type flags struct {
	file          string
	text          string
	configFile    string
	provider      string
	language      string
	prompt        string
	temperature   string
	cleanupPrompt string
	cleanupTemp   string
	verbose       bool
	showSettings  bool
	showVersion   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f flags
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.file, "file", "f", "", "audio file to transcribe")
	fs.StringVarP(&f.text, "text", "t", "", "text to clean up instead of transcribing (\"-\" reads stdin)")
	fs.StringVarP(&f.configFile, "config", "c", "", "path to config.yml")
	fs.StringVarP(&f.provider, "provider", "p", "", "transcription provider: OpenAI, Groq or faster-whisper-server")
	fs.StringVarP(&f.language, "language", "l", "", "output language code, or auto")
	fs.StringVar(&f.prompt, "prompt", "", "transcription prompt")
	fs.StringVar(&f.temperature, "temperature", "", "transcription temperature")
	fs.StringVar(&f.cleanupPrompt, "cleanup-prompt", "", "run the cleanup step with this prompt")
	fs.StringVar(&f.cleanupTemp, "cleanup-temperature", "", "cleanup temperature (default from settings)")
	fs.BoolVar(&f.verbose, "verbose", false, "log progress to stderr")
	fs.BoolVar(&f.showSettings, "show-settings", false, "print the effective settings with masked keys and exit")
	fs.BoolVarP(&f.showVersion, "version", "v", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if f.showVersion {
		fmt.Fprintln(stdout, version.Get().String())
		return 0
	}

	level := "warn"
	if f.verbose {
		level = "debug"
	}
	logger.Init(logger.Config{Level: level, Format: logger.FormatConsole, Output: "stderr"}, serviceName)
	log := logger.GetGlobalLogger()

	if appErr := checkFlags(f); appErr != nil {
		printError(stderr, appErr)
		return 2
	}

	src, err := settings.Load(serviceName, config.WithConfigFile(f.configFile))
	if err != nil {
		fmt.Fprintln(stderr, "whispering:", err)
		return 1
	}
	if f.provider != "" {
		p, err := transcription.ParseProviderID(f.provider)
		if err != nil {
			fmt.Fprintln(stderr, "whispering:", err)
			return 2
		}
		src.Update(func(s *settings.Snapshot) { s.Provider = p })
	}

	if f.showSettings {
		printSettings(stdout, src.Snapshot())
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := transcriber.New(src, transcriber.WithLogger(log.WithComponent("transcriber")))

	if f.file == "" {
		text := f.text
		if text == "" || text == "-" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				fmt.Fprintln(stderr, "whispering: read stdin:", err)
				return 1
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			printError(stderr, apperrors.InvalidInput("text", "There is no text to clean up."))
			return 2
		}
		temp := svc.CleanupTemperature()
		if f.cleanupTemp != "" {
			temp = cleanup.ParseTemperature(f.cleanupTemp)
		}
		res := svc.Cleanup(ctx, text, f.cleanupPrompt, temp)
		if !res.IsOk() {
			printError(stderr, res.Err())
			return 1
		}
		fmt.Fprintln(stdout, res.Value())
		return 0
	}

	audio, err := transcription.LoadAudio(f.file)
	if err != nil {
		printError(stderr, apperrors.InvalidInput("file", err.Error()))
		return 1
	}

	res := svc.Transcribe(ctx, audio, transcription.Options{
		OutputLanguage:     f.language,
		Prompt:             f.prompt,
		Temperature:        f.temperature,
		CleanupPrompt:      f.cleanupPrompt,
		CleanupTemperature: f.cleanupTemp,
	})
	if !res.IsOk() {
		printError(stderr, res.Err())
		if raw, ok := transcriber.RawTranscript(res.Err()); ok {
			fmt.Fprintln(stdout, raw)
		}
		return 1
	}
	fmt.Fprintln(stdout, res.Value())
	return 0
}

func checkFlags(f flags) *apperrors.AppError {
	v := validation.New()
	v.Custom(f.file == "" || f.text == "", "text", "cannot be combined with --file")
	v.MaxLength("language", f.language, 8)
	if f.cleanupTemp != "" {
		if t, err := strconv.ParseFloat(f.cleanupTemp, 64); err == nil {
			v.FloatRange("cleanup-temperature", t, 0, 2)
		}
	}
	return v.Validate()
}

func printError(w io.Writer, e *apperrors.AppError) {
	fmt.Fprintf(w, "error: %s\n", e.Title)
	if e.Description != "" {
		fmt.Fprintf(w, "  %s\n", e.Description)
	}
	if e.Action != nil && e.Action.Label != "" {
		fmt.Fprintf(w, "  -> %s\n", e.Action.Label)
	}
}

func printSettings(w io.Writer, s settings.Snapshot) {
	fmt.Fprintf(w, "provider:            %s\n", s.Provider)
	fmt.Fprintf(w, "openai api key:      %s\n", util.MaskSecret(s.OpenAIAPIKey, 3))
	fmt.Fprintf(w, "groq api key:        %s\n", util.MaskSecret(s.GroqAPIKey, 4))
	fmt.Fprintf(w, "faster-whisper url:  %s\n", s.FasterWhisperURL)
	fmt.Fprintf(w, "faster-whisper model: %s\n", s.FasterWhisperModel)
	fmt.Fprintf(w, "output language:     %s\n", s.OutputLanguage)
	fmt.Fprintf(w, "cleanup prompt set:  %t\n", s.CleanupPrompt != "")
	fmt.Fprintf(w, "cleanup model:       %s\n", s.Cleanup.Model)
	fmt.Fprintf(w, "cleanup api key:     %s\n", util.MaskSecret(s.Cleanup.APIKey, 3))
}
