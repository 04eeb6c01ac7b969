// Package node exposes the uploader as a single node-graph host node.
package node

// ClassName is the key the node is registered under.
const ClassName = "UguuUploader"

// DisplayName is the label hosts show in their node menus.
const DisplayName = "🚀 Uguu.se Video Uploader"

// Input describes one node input socket.
type Input struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
}

// Definition is what a host needs to list and call the node.
type Definition struct {
	Class       string   `json:"class"`
	DisplayName string   `json:"display_name"`
	Category    string   `json:"category"`
	Function    string   `json:"function"`
	Inputs      []Input  `json:"inputs"`
	ReturnTypes []string `json:"return_types"`
	ReturnNames []string `json:"return_names"`
}

// Describe returns the uploader node definition.
func Describe() Definition {
	return Definition{
		Class:       ClassName,
		DisplayName: DisplayName,
		Category:    "File Upload",
		Function:    "upload_video",
		Inputs: []Input{
			{Name: "video", Type: "VIDEO", Required: true},
			{Name: "output_format", Type: "STRING", Required: false, Default: "text"},
		},
		ReturnTypes: []string{"STRING"},
		ReturnNames: []string{"uguu_link"},
	}
}

// Mappings is the registration payload: node classes by name and their
// display names.
type Mappings struct {
	ClassMappings       map[string]Definition `json:"node_class_mappings"`
	DisplayNameMappings map[string]string     `json:"node_display_name_mappings"`
}

// Register returns the mappings a host merges into its node registry.
func Register() Mappings {
	def := Describe()
	return Mappings{
		ClassMappings:       map[string]Definition{def.Class: def},
		DisplayNameMappings: map[string]string{def.Class: def.DisplayName},
	}
}
