package interfaces

import "github.com/itkutus/potbot/internal/services"

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	SetNotifier(n services.Notifier)
}
