// Package components defines the scene graph components.
package components

import "image/color"

// SpriteID is an opaque handle to a loaded sprite texture.
// Zero is never returned by a loader.
type SpriteID uint32

// Transform holds a node's accumulated rotation in radians.
// Wrap-around is left to the renderer.
type Transform struct {
	RotX, RotY, RotZ float64
}

// PointCloud references a flat xyz buffer owned elsewhere (the particle field).
// Dirty is set by the frame loop after each step and cleared by the renderer on upload.
type PointCloud struct {
	Positions []float32
	Count     int
	Dirty     bool
}

// PointMaterial describes how each point of a cloud is drawn.
type PointMaterial struct {
	Sprite    SpriteID
	Tint      color.RGBA // Alpha carries the material opacity
	Size      float32    // World-space billboard size
	AlphaTest float32
}

// Node marks an entity as a child of the scene root.
type Node struct {
	Name string
}
