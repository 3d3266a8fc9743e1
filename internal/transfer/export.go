package transfer

// ExportFormat describes how a native Google document type is materialized
// as a regular file: the MIME type to request from the export endpoint and
// the suffix appended to the local name.
type ExportFormat struct {
	MimeType string
	Suffix   string
}

// exportFormats maps native Google document MIME types to their Office
// export formats. The table is a fixed constant of the tool: only these
// types are ever exported or suffixed; every other MIME type downloads
// byte-identical under its stored name.
var exportFormats = map[string]ExportFormat{
	"application/vnd.google-apps.document": {
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Suffix:   ".docx",
	},
	"application/vnd.google-apps.spreadsheet": {
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Suffix:   ".xlsx",
	},
	"application/vnd.google-apps.presentation": {
		MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Suffix:   ".pptx",
	},
}

// ExportTarget returns the export format for a native document MIME type,
// or ok=false for ordinary binary content.
func ExportTarget(mimeType string) (ExportFormat, bool) {
	f, ok := exportFormats[mimeType]
	return f, ok
}

// EffectiveLocalName returns the local file name a download will be written
// under. For native document types the export suffix is appended to the
// requested name — always appended, never replacing an existing extension,
// so "report.old" becomes "report.old.docx". Pure function, no I/O.
func EffectiveLocalName(mimeType, requestedName string) string {
	if f, ok := exportFormats[mimeType]; ok {
		return requestedName + f.Suffix
	}

	return requestedName
}
