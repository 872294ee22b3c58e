package pipeline

import (
	"context"
	"slices"

	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/manifest"
	"github.com/wrightline/panelplan/pkg/wall"
)

// Resolve turns the configured source into parameters, edit state, and
// placement specs. Resolution is cheap and side-effect free, so it is
// never cached.
func Resolve(ctx context.Context, opts Options) (Resolved, error) {
	switch opts.Source() {
	case SourceManifest:
		return resolveManifest(opts)
	case SourceWall:
		return resolveWall(ctx, opts)
	default:
		return resolveParams(opts)
	}
}

// resolveManifest decodes inline manifest content or loads it from disk.
// ManifestFilename is the path when no content is given; with content it
// is just the name, validated so API callers cannot smuggle paths.
func resolveManifest(opts Options) (Resolved, error) {
	var (
		m   *manifest.Manifest
		err error
	)
	if opts.Manifest != "" {
		if err := errors.ValidateManifestFilename(opts.ManifestFilename); err != nil {
			return Resolved{}, err
		}
		m, err = manifest.Decode([]byte(opts.Manifest))
	} else {
		m, err = manifest.Load(opts.ManifestFilename)
	}
	if err != nil {
		return Resolved{}, err
	}

	params := m.Params()
	edits, err := m.Edits(params)
	if err != nil {
		return Resolved{}, err
	}
	anchors, err := m.Anchors()
	if err != nil {
		return Resolved{}, err
	}

	specs := make([]ObjectRequest, 0, len(anchors)+len(opts.Objects))
	for _, a := range anchors {
		specs = append(specs, ObjectRequest{Spec: a.Spec, Panels: a.Panels})
	}
	specs = append(specs, opts.Objects...)

	return Resolved{
		Name:   m.Wall.Name,
		Params: params,
		Edits:  edits,
		Specs:  specs,
	}, nil
}

// resolveWall loads a stored wall record. Its objects are already placed
// and pass through; only inline object requests still need anchoring.
func resolveWall(ctx context.Context, opts Options) (Resolved, error) {
	if opts.Store == nil {
		return Resolved{}, errors.New(errors.ErrCodeInvalidInput,
			"resolving a stored wall requires a configured store")
	}
	rec, err := opts.Store.Get(ctx, opts.WallID)
	if err != nil {
		return Resolved{}, err
	}
	if rec == nil {
		return Resolved{}, errors.New(errors.ErrCodeWallNotFound,
			"wall %s not found", opts.WallID)
	}
	return Resolved{
		Name:   rec.Name,
		Params: rec.Params,
		Edits:  rec.Edits,
		Specs:  slices.Clone(opts.Objects),
		Placed: rec.Objects,
	}, nil
}

// resolveParams validates inline parameters and adopts inline edits.
func resolveParams(opts Options) (Resolved, error) {
	params := *opts.Params
	if err := params.Validate(); err != nil {
		return Resolved{}, err
	}
	var edits wall.Edits
	if opts.Edits != nil {
		edits = opts.Edits.Clone()
	}
	return Resolved{
		Params: params,
		Edits:  edits,
		Specs:  slices.Clone(opts.Objects),
	}, nil
}
