package wallet

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const keyTypeEd25519 = "ed25519"

type keyFile struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
	Data string `yaml:"data"`
}

func (w *Wallet) Save(path string) error {
	kf := keyFile{
		Type: keyTypeEd25519,
		ID:   w.id,
		Data: base64.StdEncoding.EncodeToString(w.Seed()),
	}

	d, err := yaml.Marshal(&kf)
	if err != nil {
		return errors.Wrap(err, "marshalling key data")
	}

	if err := os.WriteFile(path, d, 0600); err != nil {
		return errors.Wrap(err, "writing key file")
	}

	return nil
}

func Load(path string) (*Wallet, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading key file")
	}

	kf := keyFile{}
	if err := yaml.Unmarshal(d, &kf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling key data")
	}

	if kf.Type != keyTypeEd25519 {
		return nil, fmt.Errorf("unknown key type %s", kf.Type)
	}

	seed, err := base64.StdEncoding.DecodeString(kf.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding b64 key data")
	}

	return FromSeed(seed)
}
