// Package qrcode renders QR code PNGs, primarily for TOTP provisioning URIs
// during authenticator enrollment. GenerateDataURI returns a base64 data URI
// embeddable directly in HTML without a dedicated image endpoint.
package qrcode
