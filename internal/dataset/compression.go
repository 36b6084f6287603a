package dataset

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false))
})

func isZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func decompress(cdata []byte) ([]byte, error) {
	dec, err := decoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(cdata, make([]byte, 0, len(cdata)*3))
}
