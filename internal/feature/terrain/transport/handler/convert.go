package handler

import (
	"stock_terrain/internal/feature/terrain/domain/camera"
	"stock_terrain/internal/feature/terrain/domain/pick"
	"stock_terrain/internal/feature/terrain/transport/http/dto"
	"stock_terrain/internal/feature/terrain/usecase"
)

func toTerrainResponse(s *usecase.Scene) dto.TerrainResponse {
	m := s.Mesh
	mr := dto.MeshResponse{
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
		Positions:     make([]float64, 0, 3*m.VertexCount()),
		Normals:       make([]float64, 0, 3*m.VertexCount()),
		Colors:        make([]float64, 0, 3*m.VertexCount()),
		Heights:       m.Heights,
		Indices:       make([]int, 0, 3*m.TriangleCount()),
		Bounds:        dto.Bounds{Min: m.Bounds.Min, Max: m.Bounds.Max},
		Pickable:      m.Pickable,
	}
	for i := range m.Positions {
		p, n, c := m.Positions[i], m.Normals[i], m.Colors[i]
		mr.Positions = append(mr.Positions, p[0], p[1], p[2])
		mr.Normals = append(mr.Normals, n[0], n[1], n[2])
		mr.Colors = append(mr.Colors, c.R, c.G, c.B)
	}
	for _, t := range m.Triangles {
		mr.Indices = append(mr.Indices, t[0], t[1], t[2])
	}

	out := dto.TerrainResponse{
		Kind:       string(s.Kind),
		Rows:       s.Grid.Rows(),
		Cols:       s.Grid.Cols(),
		Grid:       s.Grid.Matrix(),
		Range:      s.Range,
		Mapping:    s.Mapping(),
		Mesh:       mr,
		Advisories: toAdvisories(s.Advisories),
		Report: dto.ReportResponse{
			Written: s.Report.Written,
			Dropped: s.Report.Dropped,
			Empty:   s.Report.Empty,
		},
	}
	switch s.Kind {
	case usecase.KindCalendar:
		out.Symbol = s.Symbol
		out.Year = s.Year
	case usecase.KindSynthetic:
		seed := s.Seed
		out.Seed = &seed
	}
	return out
}

func toAdvisories(as []usecase.Advisory) []dto.AdvisoryResponse {
	out := make([]dto.AdvisoryResponse, 0, len(as))
	for _, a := range as {
		out = append(out, dto.AdvisoryResponse{Code: string(a.Code), Message: a.Message})
	}
	return out
}

func toPick(kind usecase.Kind, r pick.Result) dto.PickResponse {
	out := dto.PickResponse{
		Hit:              r.Hit,
		Row:              r.Row,
		Col:              r.Col,
		NormalizedHeight: r.NormalizedHeight,
		Value:            r.Value,
		Point:            r.Point,
		Distance:         r.Distance,
	}
	if r.Hit && kind == usecase.KindCalendar {
		out.Month = r.Row + 1
		out.Day = r.Col + 1
	}
	return out
}

func toPickState(st usecase.PickState) dto.PickStateResponse {
	out := dto.PickStateResponse{Current: toPick(st.Kind, st.Current)}
	if st.Last != nil {
		last := toPick(st.Kind, *st.Last)
		out.Last = &last
	}
	return out
}

func toView(v *usecase.Viewer) dto.ViewResponse {
	out := dto.ViewResponse{ID: v.ID(), Camera: toCameraDTO(v.Camera())}
	if s := v.Scene(); s != nil {
		out.Scene = &dto.SceneSummary{Kind: string(s.Kind), Key: s.Key(), Advisories: toAdvisories(s.Advisories)}
		if last := v.Last(); last != nil {
			p := toPick(s.Kind, *last)
			out.Last = &p
		}
	}
	return out
}

func toCameraDTO(c camera.Camera) dto.CameraDTO {
	return dto.CameraDTO{
		Position: c.Position,
		Target:   c.Target,
		Up:       c.Up,
		FovY:     c.FovY,
		Aspect:   c.Aspect,
		Near:     c.Near,
		Far:      c.Far,
	}
}

func fromCameraDTO(d dto.CameraDTO) camera.Camera {
	return camera.Camera{
		Position: d.Position,
		Target:   d.Target,
		Up:       d.Up,
		FovY:     d.FovY,
		Aspect:   d.Aspect,
		Near:     d.Near,
		Far:      d.Far,
	}
}
