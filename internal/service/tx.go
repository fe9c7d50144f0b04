package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// errReintentar señala que el intento perdió una carrera contra otro
// escritor y debe repetirse con la realidad fresca. Nunca sale del paquete:
// agotados los reintentos aflora ErrConflictoConcurrencia.
var errReintentar = errors.New("reintentar: conflicto con escritor concurrente")

// conReintentos ejecuta fn hasta maxIntentos veces con backoff exponencial.
// Sólo repite ante errReintentar; cualquier otro error corta y se propaga.
func conReintentos(maxIntentos int, backoffBase time.Duration, fn func() error) error {
	var err error
	for intento := 0; intento < maxIntentos; intento++ {
		if intento > 0 {
			time.Sleep(backoffBase << (intento - 1))
		}
		err = fn()
		if !errors.Is(err, errReintentar) {
			return err
		}
	}
	return ErrConflictoConcurrencia
}

// runTx ejecuta fn dentro de una transacción GORM cuando hay base disponible,
// o llama fn(nil) directamente cuando db es nil (modo test unitario con
// repositorios en memoria).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
