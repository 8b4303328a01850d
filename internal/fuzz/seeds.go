package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 256 << 10
)

// languageSeeds cover every node kind and tag shape, valid or not.
var languageSeeds = []string{
	`{"body":[{"kind":"leaf","text":"x"}]}`,
	`{"body":[{"kind":"string","text":"hi"}]}`,
	`{"body":[{"kind":"interp","text":"{0}-{1}-{7}","sections":[{"kind":"leaf","text":"a"},{"kind":"leaf","text":"b"}]}]}`,
	`{"body":[{"kind":"call","callee":{"kind":"leaf","text":"f"},"args":[{"kind":"leaf","text":"1"},{"kind":"string","text":"s"}]}]}`,
	`{"body":[{"kind":"op","op":"binaryAdd","operands":[{"kind":"leaf","text":"a"},{"kind":"leaf","text":"b"}]}]}`,
	`{"body":[{"kind":"op","op":"prefixNot","operands":[{"kind":"op","op":"postfixIncr","operands":[{"kind":"leaf","text":"i"}]}]}]}`,
	`{"body":[{"kind":"op","op":"arrayAccess","operands":[{"kind":"leaf","text":"xs"},{"kind":"leaf","text":"0"}]}]}`,
	`{"body":[{"kind":"op","op":"binaryQuux","operands":[]}]}`,
	`{"body":[{"kind":"op","op":"binaryAdd","operands":[{"kind":"leaf","text":"a"}]}]}`,
	`{"body":[{"kind":"decl","name":{"kind":"leaf","text":"x"},"value":{"kind":"leaf","text":"5"}}]}`,
	`{"body":[{"kind":"func","name":{"kind":"leaf","text":"f"},"params":["a"],"body":[{"kind":"return"}]}]}`,
	`{"body":[{"kind":"return","value":{"kind":"op","op":"binaryLessOrEq","operands":[{"kind":"leaf","text":"i"},{"kind":"leaf","text":"n"}]}}]}`,
	`{"body":[{"kind":"func","name":{"kind":"leaf","text":"g"}}]}`,
	`{"body":[]}`,
	`{}`,
	`[]`,
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.json документы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
