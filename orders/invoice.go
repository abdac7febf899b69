package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vparts/db"
	"vparts/globals"
	"vparts/models"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// deliveryQRPayload signs orderID|buyerID|timestamp so the code shown
// at the door can be checked against tampering.
func deliveryQRPayload(orderID, buyerID string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, buyerID, time.Now().Unix())
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyDeliveryPayload checks the signature on a scanned delivery
// code and returns the order id it belongs to.
func VerifyDeliveryPayload(payload string) (orderID string, ok bool) {
	// payload: orderID|buyerID|ts|sig
	parts := strings.SplitN(payload, "|", 4)
	if len(parts) != 4 {
		return "", false
	}
	data := strings.Join(parts[:3], "|")
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(parts[3])) {
		return "", false
	}
	return parts[0], true
}

// PrintInvoice renders the order as a PDF with a signed delivery QR
// code. Buyer only.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("orderid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID, "buyerId": buyerID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(deliveryQRPayload(order.OrderID, order.BuyerID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tax Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s (%s)", order.Payment.Method, order.Payment.Status))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s, %s, %s %s",
		order.ShippingAddress.Street, order.ShippingAddress.City,
		order.ShippingAddress.State, order.ShippingAddress.PostalCode))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		pdf.CellFormat(90, 8, it.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", it.UnitPrice*float64(it.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{"Shipping", order.ShippingCost},
		{"Tax (18% GST)", order.Tax},
		{"Discount", -order.Discount},
		{"Total", order.TotalAmount},
	}
	for _, t := range totals {
		if t.label == "Discount" && order.Discount == 0 {
			continue
		}
		pdf.CellFormat(145, 8, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("INR %.2f", t.value), "", 1, "R", false, 0, "")
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.SetXY(150, 60)
	pdf.Cell(40, 5, "Scan on delivery")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
