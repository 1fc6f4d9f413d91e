package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/pooltable-mcp/internal/cloth"
	"github.com/ironsheep/pooltable-mcp/internal/colorspace"
	"github.com/ironsheep/pooltable-mcp/internal/imaging"
	"github.com/ironsheep/pooltable-mcp/internal/table"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "table_load", "table_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warning(component, "tool failed", map[string]interface{}{
			"tool":  params.Name,
			"error": err.Error(),
		})
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves the session (by session_id, or by path, loading on demand)
//  4. Calls the appropriate imaging/cloth/table function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Sessions
	case "table_load":
		return s.handleTableLoad(args)
	case "table_close":
		return s.handleTableClose(args)
	case "table_sizes":
		return s.handleTableSizes(args)

	// Color Operations
	case "table_sample_color":
		return s.handleTableSampleColor(args)
	case "table_sample_colors":
		return s.handleTableSampleColors(args)
	case "table_sample_region":
		return s.handleTableSampleRegion(args)
	case "table_cloth_color":
		return s.handleTableClothColor(args)
	case "table_delta_e":
		return s.handleTableDeltaE(args)

	// Analysis
	case "table_analyze":
		return s.handleTableAnalyze(args)
	case "table_annotate":
		return s.handleTableAnnotate(args)

	// Measurement
	case "table_measure":
		return s.handleTableMeasure(args)
	case "table_compare_regions":
		return s.handleTableCompareRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sessions ===

// sessionArgs selects the image a tool works on. SessionID wins; otherwise
// Path is used and loaded if no session holds it yet.
type sessionArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r regionArgs) region() imaging.Region {
	return imaging.Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2}
}

func (s *Server) session(ref sessionArgs) (*table.Session, error) {
	s.mu.Lock()
	if ref.SessionID != "" {
		sess, ok := s.sessions[ref.SessionID]
		s.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("unknown session: %s", ref.SessionID)
		}
		return sess, nil
	}
	if ref.Path == "" {
		s.mu.Unlock()
		return nil, errors.New("session_id or path is required")
	}
	if id, ok := s.byPath[ref.Path]; ok {
		sess := s.sessions[id]
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()
	return s.openSession(ref.Path)
}

// openSession decodes path into a new session, replacing any session that
// already holds the same path.
func (s *Server) openSession(path string) (*table.Session, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	buf, err := imaging.Decode(imaging.Downscale(img, s.cfg.GetMaxDimension()))
	if err != nil {
		return nil, err
	}
	sess := table.NewSession(path, buf)

	s.mu.Lock()
	if old, ok := s.byPath[path]; ok {
		delete(s.sessions, old)
	}
	s.sessions[sess.ID()] = sess
	s.byPath[path] = sess.ID()
	s.mu.Unlock()

	s.log.Info(component, "session opened", map[string]interface{}{
		"session": sess.ID(),
		"path":    path,
		"width":   buf.Width(),
		"height":  buf.Height(),
	})
	return sess, nil
}

type tableLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

type tableLoadResult struct {
	SessionID string `json:"session_id"`
	*imaging.ImageInfo
	AnalysisWidth  int `json:"analysis_width"`
	AnalysisHeight int `json:"analysis_height"`
}

func (s *Server) handleTableLoad(args json.RawMessage) (interface{}, error) {
	var a tableLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}

	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	sess, err := s.openSession(a.Path)
	if err != nil {
		return nil, err
	}
	return &tableLoadResult{
		SessionID:      sess.ID(),
		ImageInfo:      info,
		AnalysisWidth:  sess.Buffer().Width(),
		AnalysisHeight: sess.Buffer().Height(),
	}, nil
}

func (s *Server) handleTableClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := a.SessionID
	if id == "" {
		id = s.byPath[a.Path]
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	delete(s.sessions, id)
	delete(s.byPath, sess.Path())
	return map[string]interface{}{"closed": id}, nil
}

type tableSizeInfo struct {
	Name         string  `json:"name"`
	LengthInches float64 `json:"length_inches"`
	WidthInches  float64 `json:"width_inches"`
	Default      bool    `json:"default,omitempty"`
}

func (s *Server) handleTableSizes(json.RawMessage) (interface{}, error) {
	def := s.cfg.GetTableSize()
	sizes := make([]tableSizeInfo, 0, len(table.Sizes()))
	for _, size := range table.Sizes() {
		d, err := size.Dimensions()
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, tableSizeInfo{
			Name:         size.String(),
			LengthInches: d.LengthInches,
			WidthInches:  d.WidthInches,
			Default:      size == def,
		})
	}
	return map[string]interface{}{
		"sizes":                sizes,
		"ball_diameter_inches": table.BallDiameterInches,
	}, nil
}

// === Color Operation Handlers ===

type tableSampleColorArgs struct {
	sessionArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleTableSampleColor(args json.RawMessage) (interface{}, error) {
	var a tableSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(sess.Buffer(), a.X, a.Y)
}

type tableSampleColorsArgs struct {
	sessionArgs
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleTableSampleColors(args json.RawMessage) (interface{}, error) {
	var a tableSampleColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(sess.Buffer(), points)
}

type tableSampleRegionArgs struct {
	sessionArgs
	Region *regionArgs `json:"region,omitempty"`
	Count  int         `json:"count"`
	Scale  float64     `json:"scale"`
}

type sampleRegionResult struct {
	Region   imaging.Region       `json:"region"`
	Dominant imaging.ColorResult  `json:"dominant"`
	Palette  []cloth.PaletteEntry `json:"palette"`
	Preview  *imaging.CropResult  `json:"preview"`
}

func (s *Server) handleTableSampleRegion(args json.RawMessage) (interface{}, error) {
	var a tableSampleRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}
	buf := sess.Buffer()

	region := cloth.CenterRegion(buf.Width(), buf.Height())
	if a.Region != nil {
		region = a.Region.region()
	}

	dominant, err := cloth.FindDominantColor(buf, region)
	if err != nil {
		return nil, err
	}
	palette, err := cloth.Palette(buf, region, a.Count)
	if err != nil {
		return nil, err
	}
	preview, err := imaging.Crop(buf, region, a.Scale)
	if err != nil {
		return nil, err
	}

	return &sampleRegionResult{
		Region:   region,
		Dominant: imaging.NewColorResult(dominant),
		Palette:  palette,
		Preview:  preview,
	}, nil
}

type tableClothColorArgs struct {
	sessionArgs
	Count int `json:"count"`
}

type clothColorResult struct {
	SessionID    string               `json:"session_id"`
	Cloth        imaging.ColorResult  `json:"cloth"`
	SampleRegion imaging.Region       `json:"sample_region"`
	Palette      []cloth.PaletteEntry `json:"palette"`
}

func (s *Server) handleTableClothColor(args json.RawMessage) (interface{}, error) {
	var a tableClothColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}

	p, region, err := sess.ClothColor()
	if err != nil {
		return nil, err
	}
	palette, err := cloth.Palette(sess.Buffer(), region, a.Count)
	if err != nil {
		return nil, err
	}
	return &clothColorResult{
		SessionID:    sess.ID(),
		Cloth:        imaging.NewColorResult(p),
		SampleRegion: region,
		Palette:      palette,
	}, nil
}

type tableDeltaEArgs struct {
	Color1  string `json:"color1"`
	Color2  string `json:"color2"`
	Profile string `json:"profile"`
	Metric  string `json:"metric"`
}

type deltaEResult struct {
	DeltaE    float64                    `json:"delta_e"`
	Metric    colorspace.Metric          `json:"metric"`
	Profile   colorspace.DeltaEConstants `json:"profile"`
	Color1    colorspace.LabColor        `json:"color1"`
	Color2    colorspace.LabColor        `json:"color2"`
	Threshold float64                    `json:"threshold"`
	Distinct  bool                       `json:"distinct"`
}

func (s *Server) handleTableDeltaE(args json.RawMessage) (interface{}, error) {
	var a tableDeltaEArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	c1, err := colorspace.ParseHex(a.Color1)
	if err != nil {
		return nil, fmt.Errorf("color1: %w", err)
	}
	c2, err := colorspace.ParseHex(a.Color2)
	if err != nil {
		return nil, fmt.Errorf("color2: %w", err)
	}

	app := s.cfg.GetProfile()
	if a.Profile != "" {
		if app, err = colorspace.ParseApplication(a.Profile); err != nil {
			return nil, err
		}
	}
	metric := s.cfg.GetMetric()
	if a.Metric != "" {
		if metric, err = colorspace.ParseMetric(a.Metric); err != nil {
			return nil, err
		}
	}
	distance, err := metric.Distance(app)
	if err != nil {
		return nil, err
	}

	d := distance(c1, c2)
	return &deltaEResult{
		DeltaE:    math.Round(d*1000) / 1000,
		Metric:    metric,
		Profile:   app.Constants(),
		Color1:    c1,
		Color2:    c2,
		Threshold: s.cfg.GetThreshold(),
		Distinct:  d >= s.cfg.GetThreshold(),
	}, nil
}

// === Analysis Handlers ===

type tableAnalyzeArgs struct {
	sessionArgs
	TableSize     string   `json:"table_size"`
	Threshold     *float64 `json:"threshold,omitempty"`
	MinBlobPixels *int     `json:"min_blob_pixels,omitempty"`
	BlurRadius    *float64 `json:"blur_radius,omitempty"`
	MorphRadius   *float64 `json:"morph_radius,omitempty"`
}

func (s *Server) tableSize(name string) (table.TableSize, error) {
	if name == "" {
		return s.cfg.GetTableSize(), nil
	}
	return table.ParseTableSize(name)
}

// analyzerFor returns the configured analyzer, or a one-off analyzer when the
// call overrides any tuning.
func (s *Server) analyzerFor(a tableAnalyzeArgs) (*table.Analyzer, error) {
	if a.Threshold == nil && a.MinBlobPixels == nil && a.BlurRadius == nil && a.MorphRadius == nil {
		return s.analyzer, nil
	}
	opts := s.analyzer.Options()
	if a.Threshold != nil {
		if math.IsNaN(*a.Threshold) || *a.Threshold <= 0 {
			return nil, fmt.Errorf("threshold must be positive, got %v", *a.Threshold)
		}
		opts.Segment.Threshold = *a.Threshold
	}
	if a.MinBlobPixels != nil {
		opts.Segment.MinBlobPixels = *a.MinBlobPixels
	}
	if a.BlurRadius != nil {
		opts.Segment.BlurRadius = *a.BlurRadius
	}
	if a.MorphRadius != nil {
		opts.Segment.MorphRadius = *a.MorphRadius
	}
	return table.NewAnalyzer(opts, s.log), nil
}

type analyzeResult struct {
	SessionID string `json:"session_id"`
	*table.Report
}

func (s *Server) handleTableAnalyze(args json.RawMessage) (interface{}, error) {
	var a tableAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := s.tableSize(a.TableSize)
	if err != nil {
		return nil, err
	}
	analyzer, err := s.analyzerFor(a)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}

	report, err := sess.Analyze(analyzer, size)
	if err != nil {
		return nil, err
	}
	return &analyzeResult{SessionID: sess.ID(), Report: report}, nil
}

type tableAnnotateArgs struct {
	sessionArgs
	ShowBalls       *bool  `json:"show_balls,omitempty"`
	BoxColor        string `json:"box_color"`
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates bool   `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
}

func (s *Server) handleTableAnnotate(args json.RawMessage) (interface{}, error) {
	var a tableAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.BoxColor == "" {
		a.BoxColor = "#FF00FF"
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	showBalls := a.ShowBalls == nil || *a.ShowBalls

	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}
	last := sess.Last()
	if showBalls && last == nil {
		return nil, errors.New("no analysis for this image; call table_analyze first")
	}
	buf := sess.Buffer()
	buf.Reset()

	if a.GridSpacing > 0 {
		gridColor, err := imaging.ParseHexColor(a.GridColor)
		if err != nil {
			return nil, fmt.Errorf("grid_color: %w", err)
		}
		if err := imaging.DrawGrid(buf, a.GridSpacing, a.ShowCoordinates, gridColor); err != nil {
			return nil, err
		}
	}

	var boxes []imaging.Box
	if showBalls {
		boxColor, err := imaging.ParseHexColor(a.BoxColor)
		if err != nil {
			return nil, fmt.Errorf("box_color: %w", err)
		}
		for i, ball := range last.Balls {
			boxes = append(boxes, imaging.Box{
				Bounds: ball.Bounds(),
				Label:  fmt.Sprintf("%d", i+1),
				Color:  boxColor,
			})
		}
		imaging.DrawBoxes(buf, boxes)
	}

	return imaging.Render(buf, len(boxes), a.GridSpacing)
}

// === Measurement Handlers ===

type tableMeasureArgs struct {
	sessionArgs
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	TableSize string `json:"table_size"`
}

type measureResult struct {
	*imaging.DistanceResult
	TableSize      table.TableSize `json:"table_size"`
	DistanceInches float64         `json:"distance_inches"`
}

func (s *Server) handleTableMeasure(args json.RawMessage) (interface{}, error) {
	var a tableMeasureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := s.tableSize(a.TableSize)
	if err != nil {
		return nil, err
	}
	dims, err := size.Dimensions()
	if err != nil {
		return nil, err
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}
	buf := sess.Buffer()

	dist, err := imaging.MeasureDistance(buf, imaging.Point{X: a.X1, Y: a.Y1}, imaging.Point{X: a.X2, Y: a.Y2})
	if err != nil {
		return nil, err
	}
	sx, sy, err := table.Frame{Width: buf.Width(), Height: buf.Height()}.Scale(dims)
	if err != nil {
		return nil, err
	}
	inches := math.Hypot(float64(dist.DeltaX)*sx, float64(dist.DeltaY)*sy)

	return &measureResult{
		DistanceResult: dist,
		TableSize:      size,
		DistanceInches: math.Round(inches*100) / 100,
	}, nil
}

type tableCompareRegionsArgs struct {
	sessionArgs
	Region1   regionArgs `json:"region1"`
	Region2   regionArgs `json:"region2"`
	Threshold float64    `json:"threshold"`
}

func (s *Server) handleTableCompareRegions(args json.RawMessage) (interface{}, error) {
	var a tableCompareRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == 0 {
		a.Threshold = s.cfg.GetThreshold()
	}
	sess, err := s.session(a.sessionArgs)
	if err != nil {
		return nil, err
	}
	return imaging.CompareRegions(sess.Buffer(), a.Region1.region(), a.Region2.region(), a.Threshold)
}
