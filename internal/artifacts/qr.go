package artifacts

import (
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodeQRPayload renders url as a size x size PNG.
func EncodeQRPayload(url string, size int) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, size)
}

// TargetURL is the address a scanned product code points at: base + "/" + id.
func TargetURL(base string, productID int64) string {
	return strings.TrimRight(base, "/") + "/" + strconv.FormatInt(productID, 10)
}
