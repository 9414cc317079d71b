package types

// JSONMap stores loosely-structured JSON payloads, such as the raw gateway
// verification response kept for audit.
type JSONMap map[string]any
