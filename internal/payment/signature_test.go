package payment

import "testing"

func TestSignatureKnownVector(t *testing.T) {
	// independently computed: HMAC-SHA256("s3cr3t", "order_abc|pay_123")
	const want = "070ea2f5813be979e4d4dd50f9840717bb01adf600c92662f401086c6cabbf9a"
	got := Signature("s3cr3t", "order_abc", "pay_123")
	if got != want {
		t.Fatalf("unexpected digest: %s", got)
	}
}

func TestSignatureDeterministic(t *testing.T) {
	first := Signature("test_secret", "order_DBJOWzybf0sJbb", "pay_29QQoUBi66xm2f")
	second := Signature("test_secret", "order_DBJOWzybf0sJbb", "pay_29QQoUBi66xm2f")
	if first != second {
		t.Fatalf("digest not deterministic: %s != %s", first, second)
	}
	const want = "e01c80ebc10d148518d17c33f3656de8f09959eb48a06865956b88966c127401"
	if first != want {
		t.Fatalf("unexpected digest: %s", first)
	}
}

func TestSignatureSensitivity(t *testing.T) {
	base := Signature("s3cr3t", "order_abc", "pay_123")
	if Signature("s3cr3t", "order_abd", "pay_123") == base {
		t.Fatal("digest must change with order id")
	}
	if Signature("s3cr3t", "order_abc", "pay_124") == base {
		t.Fatal("digest must change with payment id")
	}
	if Signature("s3cr4t", "order_abc", "pay_123") == base {
		t.Fatal("digest must change with secret")
	}
	// the delimiter is part of the message: shifting a character across it
	// must not collide
	if Signature("s3cr3t", "order_abcp", "ay_123") == base {
		t.Fatal("delimiter must separate order and payment ids")
	}
}

func TestValidSignatureRejectsEmpty(t *testing.T) {
	if validSignature("s3cr3t", "order_abc", "pay_123", "") {
		t.Fatal("empty claimed signature must not verify")
	}
}
