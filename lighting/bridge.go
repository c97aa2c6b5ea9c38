package lighting

// Lightmap coordinates pack block light into bits 4..7 and sky light into
// bits 20..23, matching the host's packed brightness format.
const (
	blockShift = 4
	skyShift   = 20
	levelMask  = 0xF
)

// MaxLightmap is the brightest packed lightmap value.
var MaxLightmap = PackLightmap(MaxLevel, MaxLevel)

// PackLightmap packs block and sky light into a lightmap coordinate.
func PackLightmap(block, sky int32) int32 {
	return block<<blockShift | sky<<skyShift
}

// BlockLight extracts the block component of a packed lightmap value.
func BlockLight(packed int32) int32 {
	return packed >> blockShift & levelMask
}

// SkyLight extracts the sky component of a packed lightmap value.
func SkyLight(packed int32) int32 {
	return packed >> skyShift & levelMask
}

// Source answers point light lookups. *Index satisfies it.
type Source interface {
	Level(cell Cell) (int32, bool)
}

// Bridge substitutes particle light into the host's two light lookups.
// Both lookups are read-only and never dim the host's own result.
type Bridge struct {
	src Source
}

// NewBridge creates a bridge over src.
func NewBridge(src Source) Bridge {
	return Bridge{src: src}
}

// QueryBlockLight returns the override for an entity-relative block light
// lookup, or false to keep hostLevel.
func (b Bridge) QueryBlockLight(cell Cell, hostLevel int32) (int32, bool) {
	level, ok := b.src.Level(cell)
	if !ok || level <= hostLevel {
		return hostLevel, false
	}
	return level, true
}

// QueryLightmap returns the override for a packed lightmap lookup, or false
// to keep hostPacked. Only the block component is replaced; sky light always
// comes from the host.
func (b Bridge) QueryLightmap(cell Cell, hostPacked int32) (int32, bool) {
	level, ok := b.src.Level(cell)
	if !ok || level <= BlockLight(hostPacked) {
		return hostPacked, false
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return min(PackLightmap(level, SkyLight(hostPacked)), MaxLightmap), true
}
