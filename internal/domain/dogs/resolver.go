package dogs

import (
	"context"
	"strings"
)

// Resolve busca un perro por identificador con precedencia estático-primero:
//
//  1. catálogo estático, por id exacto o por nombre (case-insensitive);
//     gana la primera coincidencia en orden de origen
//  2. consulta puntual al repo remoto por id
//
// La precedencia es deliberada: las fichas semilla siempre ganan, aunque un
// admin cree un registro remoto con el mismo slug. Como mucho se hace una
// llamada remota, y solo si el paso 1 no matchea.
func (c *Catalog) Resolve(ctx context.Context, identifier string) (Dog, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Dog{}, ErrNotFound
	}

	for _, d := range c.static {
		if d.ID == identifier || strings.EqualFold(d.Name, identifier) {
			return d, nil
		}
	}

	return c.svc.GetByID(ctx, identifier)
}
