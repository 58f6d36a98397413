// Package scene holds the scene graph submitted to the renderer each frame.
//
// Nodes live in an ECS world. The root carries the whole-scene Transform;
// point-cloud nodes carry a PointCloud and PointMaterial and inherit the root
// rotation.
package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/driftbox/components"
)

// Scene is the scene graph handle shared by the frame loop and the renderer.
type Scene struct {
	world *ecs.World
	root  ecs.Entity

	rootMapper  *ecs.Map2[components.Node, components.Transform]
	cloudMapper *ecs.Map3[components.Node, components.PointCloud, components.PointMaterial]
	xformMap    *ecs.Map1[components.Transform]
	cloudMap    *ecs.Map1[components.PointCloud]
	cloudFilter *ecs.Filter2[components.PointCloud, components.PointMaterial]
}

// New creates an empty scene with a root node at zero rotation.
func New() *Scene {
	world := ecs.NewWorld()

	s := &Scene{
		world:       world,
		rootMapper:  ecs.NewMap2[components.Node, components.Transform](world),
		cloudMapper: ecs.NewMap3[components.Node, components.PointCloud, components.PointMaterial](world),
		xformMap:    ecs.NewMap1[components.Transform](world),
		cloudMap:    ecs.NewMap1[components.PointCloud](world),
		cloudFilter: ecs.NewFilter2[components.PointCloud, components.PointMaterial](world),
	}
	s.root = s.rootMapper.NewEntity(&components.Node{Name: "root"}, &components.Transform{})

	return s
}

// AddPoints attaches a point cloud over positions (3 values per point).
// The buffer is shared, not copied: the owner mutates it and calls MarkDirty.
func (s *Scene) AddPoints(name string, positions []float32, mat components.PointMaterial) ecs.Entity {
	cloud := components.PointCloud{
		Positions: positions,
		Count:     len(positions) / 3,
		Dirty:     true,
	}
	return s.cloudMapper.NewEntity(&components.Node{Name: name}, &cloud, &mat)
}

// MarkDirty flags a point cloud for upload on the next submission.
func (s *Scene) MarkDirty(e ecs.Entity) {
	if cloud := s.cloudMap.Get(e); cloud != nil {
		cloud.Dirty = true
	}
}

// Cloud returns the point cloud component of e, or nil.
func (s *Scene) Cloud(e ecs.Entity) *components.PointCloud {
	return s.cloudMap.Get(e)
}

// Rotation returns the root transform. Mutations apply to the whole scene.
func (s *Scene) Rotation() *components.Transform {
	return s.xformMap.Get(s.root)
}

// EachPoints visits every point-cloud node.
func (s *Scene) EachPoints(fn func(cloud *components.PointCloud, mat *components.PointMaterial)) {
	query := s.cloudFilter.Query()
	for query.Next() {
		cloud, mat := query.Get()
		fn(cloud, mat)
	}
}
