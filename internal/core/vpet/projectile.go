package vpet

// ProjectileSpriteKey names the sprite used for attack projectiles.
const ProjectileSpriteKey = "projectile"

// Projectile is a fireball travelling across the canvas in the pet's
// facing direction. It is removed once fully outside the bounds.
type Projectile struct {
	X         float64
	Y         float64
	Direction int
	SpriteKey string
}

// SpawnProjectile launches a projectile from mid-body height in front of
// the pet. It is a hook helper: the engine lock is already held, so it
// must only be called from event hooks.
func (engine *Engine) SpawnProjectile() {
	x := engine.x - float64(engine.projectileWidth)
	if engine.direction == 1 {
		x = engine.x + float64(engine.spriteWidth)
	}
	engine.projectiles = append(engine.projectiles, Projectile{
		X:         x,
		Y:         float64(engine.config.CanvasHeight - engine.spriteHeight/2),
		Direction: engine.direction,
		SpriteKey: ProjectileSpriteKey,
	})
}

// Projectiles returns a copy of the active projectiles.
func (engine *Engine) Projectiles() []Projectile {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	projectiles := make([]Projectile, len(engine.projectiles))
	copy(projectiles, engine.projectiles)
	return projectiles
}

func (engine *Engine) advanceProjectilesLocked() {
	if len(engine.projectiles) == 0 {
		return
	}

	step := engine.config.ProjectileStep * float64(engine.config.Scale)
	alive := engine.projectiles[:0]
	for _, projectile := range engine.projectiles {
		projectile.X += float64(projectile.Direction) * step
		if projectile.X+float64(engine.projectileWidth) < 0 ||
			projectile.X > float64(engine.config.CanvasWidth) {
			continue
		}
		alive = append(alive, projectile)
	}
	engine.projectiles = alive
}
