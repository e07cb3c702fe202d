package explorer

// Camera is the world coordinate shown at the centre of the screen.
type Camera struct {
	X, Y int32
}

// Move pans the camera. Coordinates wrap at the edges of the plane.
func (c *Camera) Move(dx, dy int32) {
	c.X += dx
	c.Y += dy
}

// JumpTo places the camera at (x, y).
func (c *Camera) JumpTo(x, y int32) {
	c.X, c.Y = x, y
}

// Origin returns the world coordinate of the top-left cell of a width x height view.
func (c Camera) Origin(width, height int) (int32, int32) {
	return c.X - int32(width/2), c.Y - int32(height/2)
}
