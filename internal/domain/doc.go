// Package domain models responses of the ASI Space Science Data Center (SSDC)
// SED Builder service.
//
// # Data Source
//
// The SED Builder combines spectral energy distribution measurements from
// several missions and catalogs, both ground and space based. A single
// getData call returns every measurement found around a sky position:
//
//	GET <base>/getData?ra=<deg>&dec=<deg>
//
// # Response Layout
//
//	{
//	  "ResponseInfo": {"statusCode": "OK", "message": null},
//	  "Properties":   {"Nh": 1.3e20},
//	  "Catalogs": [
//	    {
//	      "Catalog":    {"CatalogName": "FERMI4FGL", "ErrorRadius": 5.0},
//	      "SourceData": [ {measurement}, {"Info": "Upper Limit"}, ... ]
//	    }
//	  ]
//	}
//
// Success is decided by statusCode alone: any other value still parses, and
// only [Response.IsSuccessful] reports the failure.
//
// # Row Variants
//
// SourceData rows come in two shapes:
//
//	Measurement:  Frequency, Nufnu, FrequencyError, NufnuError are present,
//	              plus optional Name, AngularDistance, StartTime, StopTime, Info.
//	WarningStub:  only an Info string. The service currently strips the
//	              numeric payload of rows it tags with a warning, so the flag
//	              is all that survives.
//
// [ResolveRow] tries Measurement first and falls back to WarningStub only when
// the numeric keys are absent. A row that carries the numeric keys but violates
// their domain is rejected, never demoted to a stub.
//
// # Units
//
//	Frequency, FrequencyError        Hz
//	Nufnu, NufnuError                erg / (cm2 s)
//	AngularDistance, ErrorRadius     arcsec
//	StartTime, StopTime              d (MJD)
//	Nh                               1 / cm2
//
// The ordered column list in [Columns] is a positional contract for the flat
// table projection.
//
// # Validation
//
// Decoding is all-or-nothing: a type mismatch, a missing required field or an
// out-of-domain value anywhere in the document yields a [*SchemaError] and no
// Response.
package domain
