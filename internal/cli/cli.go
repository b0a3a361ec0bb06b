// Package cli implements the non-interactive tensorwidget commands.
package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/tensor"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// loadCollection reads every tensor of path
func loadCollection(path, query string) (*tensor.Collection, error) {
	col, err := tensor.Load(path, tensor.LoadOptions{Query: query})
	if err != nil {
		return nil, err
	}
	if len(col.Tensors) == 0 {
		return nil, fmt.Errorf("%w: %s holds no tensors", tensor.ErrTensorNotFound, path)
	}
	log.Debugf("loaded %d tensors from %s", len(col.Tensors), path)
	return col, nil
}

// resolveTensor picks the tensor a command works on. Without a name, a file
// holding several tensors prompts for one when stdin is a terminal.
func resolveTensor(col *tensor.Collection, name string, prompt bool) (tensor.Named, error) {
	if name == "" && len(col.Tensors) > 1 && prompt && isInteractive() {
		chosen, err := promptForTensor(col)
		if err != nil {
			return tensor.Named{}, err
		}
		name = chosen
	}
	return col.Find(name)
}
