package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
	"github.com/veritasnet/veritas-cli/pkg/truthapi"
)

// promptClaim collects a claim interactively. Only runs on a terminal;
// piped invocations must pass --text instead.
func promptClaim() (*truthapi.ClaimDraft, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil, errs.Precondition("claim text required (use --text when not on a terminal)")
	}

	reader := bufio.NewReader(os.Stdin)

	text, err := promptLine(reader, "Claim text: ")
	if err != nil {
		return nil, err
	}

	draft := &truthapi.ClaimDraft{Text: text}

	subject, err := promptLine(reader, "Semantic subject (enter to skip): ")
	if err != nil {
		return nil, err
	}
	if subject != "" {
		predicate, err := promptLine(reader, "Semantic predicate: ")
		if err != nil {
			return nil, err
		}
		object, err := promptLine(reader, "Semantic object: ")
		if err != nil {
			return nil, err
		}
		draft.Semantic = &signing.SemanticTriple{
			Subject:   subject,
			Predicate: predicate,
			Object:    object,
		}
	}

	for {
		link, err := promptLine(reader, "Evidence URL (enter to finish): ")
		if err != nil {
			return nil, err
		}
		if link == "" {
			break
		}
		draft.Evidence = append(draft.Evidence, link)
	}

	return draft, nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
