package dto

// SceneRequest はビューアに読み込むシーンの指定です。
// synthetic が true の場合は seed と size、それ以外は symbol と year を使います。
type SceneRequest struct {
	Symbol    string `json:"symbol"`
	Year      int    `json:"year"`
	Synthetic bool   `json:"synthetic"`
	Seed      int64  `json:"seed"`
	Size      int    `json:"size"`
}

// CameraDTO はカメラ設定です。fovY は度数法です。
type CameraDTO struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Up       [3]float64 `json:"up"`
	FovY     float64    `json:"fovY"`
	Aspect   float64    `json:"aspect"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

// PointerRequest は正規化デバイス座標 [-1,1] のポインタ位置です。
type PointerRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// PickResponse は1回のピック結果です。hit が false の場合、他の値は意味を持ちません。
// month と day はカレンダー地形の場合のみ 1 始まりで設定されます。
type PickResponse struct {
	Hit              bool       `json:"hit"`
	Row              int        `json:"row"`
	Col              int        `json:"col"`
	Month            int        `json:"month,omitempty"`
	Day              int        `json:"day,omitempty"`
	NormalizedHeight float64    `json:"normalizedHeight"`
	Value            float64    `json:"value"`
	Point            [3]float64 `json:"point"`
	Distance         float64    `json:"distance"`
}

// PickStateResponse は直近のピックと、最後に当たったピックです。
type PickStateResponse struct {
	Current PickResponse  `json:"current"`
	Last    *PickResponse `json:"last"`
}

// ViewResponse はビューアの状態です。
type ViewResponse struct {
	ID     string        `json:"id"`
	Camera CameraDTO     `json:"camera"`
	Scene  *SceneSummary `json:"scene"`
	Last   *PickResponse `json:"last"`
}

// SceneSummary はビューアに読み込まれているシーンの概要です。
type SceneSummary struct {
	Kind       string             `json:"kind"`
	Key        string             `json:"key"`
	Advisories []AdvisoryResponse `json:"advisories"`
}

// StreamMessage はWebSocketでやり取りするメッセージです。
//
// 受信: {"type":"pointer","x":0.1,"y":-0.3}
// 送信: {"type":"pick","pick":{...}} / {"type":"error","error":"..."}
type StreamMessage struct {
	Type  string             `json:"type"`
	X     float64            `json:"x,omitempty"`
	Y     float64            `json:"y,omitempty"`
	Pick  *PickStateResponse `json:"pick,omitempty"`
	Error string             `json:"error,omitempty"`
}
